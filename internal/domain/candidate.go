package domain

import (
	"context"
	"time"
)

type CandidateStatus string

const (
	StatusNew          CandidateStatus = "new"
	StatusScreening    CandidateStatus = "screening"
	StatusInterviewing CandidateStatus = "interviewing"
	StatusOffer        CandidateStatus = "offer"
	StatusHired        CandidateStatus = "hired"
	StatusRejected     CandidateStatus = "rejected"
	StatusWithdrawn    CandidateStatus = "withdrawn"
)

type InterviewStage string

const (
	StageNotStarted  InterviewStage = "not_started"
	StagePhoneScreen InterviewStage = "phone_screen"
	StageTechnical   InterviewStage = "technical"
	StageBehavioral  InterviewStage = "behavioral"
	StageFinal       InterviewStage = "final"
	StageCompleted   InterviewStage = "completed"
)

// PartitionPrefix prefixes every candidate partition key (CANDIDATE_2024-05).
const PartitionPrefix = "CANDIDATE_"

// Candidate is a tracked applicant. ID always equals RowKey; PartitionKey,
// ID, RowKey and CreatedAt never change after creation.
type Candidate struct {
	ID           string     `json:"id"`
	PartitionKey string     `json:"partitionKey"`
	RowKey       string     `json:"rowKey"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	VersionTag   string     `json:"eTag,omitempty"`

	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             *string         `json:"phone,omitempty"`
	Position          string          `json:"position"`
	Status            CandidateStatus `json:"status"`
	InterviewStage    InterviewStage  `json:"interviewStage"`
	ApplicationDate   time.Time       `json:"applicationDate"`
	ExpectedSalary    *float64        `json:"expectedSalary,omitempty"`
	YearsOfExperience *float64        `json:"yearsOfExperience,omitempty"`
	Notes             *string         `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	UpdatedBy *string   `json:"updatedBy,omitempty"`
}

// CreateCandidateRequest is the unvalidated create payload. Optional fields
// are pointers so that "absent" and "zero" stay distinguishable.
type CreateCandidateRequest struct {
	Name              *string    `json:"name" validate:"required,notblank,max=100"`
	Email             *string    `json:"email" validate:"required,email"`
	Phone             *string    `json:"phone"`
	Position          *string    `json:"position" validate:"required,notblank,max=100"`
	Status            *string    `json:"status" validate:"omitempty,candidate_status"`
	InterviewStage    *string    `json:"interviewStage" validate:"omitempty,interview_stage"`
	ApplicationDate   *DateInput `json:"applicationDate" validate:"omitempty,iso_date"`
	ExpectedSalary    *float64   `json:"expectedSalary" validate:"omitempty,gt=0"`
	YearsOfExperience *float64   `json:"yearsOfExperience" validate:"omitempty,gte=0"`
	Notes             *string    `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateCandidateRequest is the unvalidated partial update payload. Fields
// naming immutable attributes (id, partitionKey, rowKey, createdAt) are not
// part of it and are dropped by the decoder.
type UpdateCandidateRequest struct {
	Name              *string    `json:"name" validate:"omitempty,notblank,max=100"`
	Email             *string    `json:"email" validate:"omitempty,email"`
	Phone             *string    `json:"phone"`
	Position          *string    `json:"position" validate:"omitempty,notblank,max=100"`
	Status            *string    `json:"status" validate:"omitempty,candidate_status"`
	InterviewStage    *string    `json:"interviewStage" validate:"omitempty,interview_stage"`
	ApplicationDate   *DateInput `json:"applicationDate" validate:"omitempty,iso_date"`
	ExpectedSalary    *float64   `json:"expectedSalary" validate:"omitempty,gt=0"`
	YearsOfExperience *float64   `json:"yearsOfExperience" validate:"omitempty,gte=0"`
	Notes             *string    `json:"notes" validate:"omitempty,max=1000"`
}

// IsEmpty reports whether no recognized field was supplied.
func (r *UpdateCandidateRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Position == nil &&
		r.Status == nil && r.InterviewStage == nil && r.ApplicationDate == nil &&
		r.ExpectedSalary == nil && r.YearsOfExperience == nil && r.Notes == nil
}

// CreateCandidateInput is validated, typed creation data handed to the repository.
type CreateCandidateInput struct {
	Name              string
	Email             string
	Phone             *string
	Position          string
	Status            *CandidateStatus
	InterviewStage    *InterviewStage
	ApplicationDate   *time.Time
	ExpectedSalary    *float64
	YearsOfExperience *float64
	Notes             *string
	CreatedBy         *string
}

// UpdateCandidateInput carries only the fields to merge over the stored record.
type UpdateCandidateInput struct {
	Name              *string
	Email             *string
	Phone             *string
	Position          *string
	Status            *CandidateStatus
	InterviewStage    *InterviewStage
	ApplicationDate   *time.Time
	ExpectedSalary    *float64
	YearsOfExperience *float64
	Notes             *string
	UpdatedBy         *string
}

type CandidateRepository interface {
	FindByID(ctx context.Context, id string) (*Candidate, error)
	Create(ctx context.Context, input *CreateCandidateInput) (*Candidate, error)
	Update(ctx context.Context, id string, input *UpdateCandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts PaginationOptions) (*PaginatedResult[Candidate], error)
}

type CandidateUsecase interface {
	CreateCandidate(ctx context.Context, req *CreateCandidateRequest) (*Candidate, error)
	GetCandidateByID(ctx context.Context, id string) (*Candidate, error)
	UpdateCandidate(ctx context.Context, id string, req *UpdateCandidateRequest) (*Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error
	ListCandidates(ctx context.Context, opts PaginationOptions) (*PaginatedResult[Candidate], error)
}

// AllCandidateStatuses lists the accepted status literals in pipeline order.
var AllCandidateStatuses = []CandidateStatus{
	StatusNew, StatusScreening, StatusInterviewing, StatusOffer,
	StatusHired, StatusRejected, StatusWithdrawn,
}

var AllInterviewStages = []InterviewStage{
	StageNotStarted, StagePhoneScreen, StageTechnical,
	StageBehavioral, StageFinal, StageCompleted,
}

func (s CandidateStatus) Valid() bool {
	for _, v := range AllCandidateStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s InterviewStage) Valid() bool {
	for _, v := range AllInterviewStages {
		if s == v {
			return true
		}
	}
	return false
}
