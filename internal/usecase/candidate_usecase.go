package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/pkg/apperror"
	"candidate-tracking-backend/pkg/audit"
	"candidate-tracking-backend/pkg/validation"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	validate *validator.Validate
	audit    *audit.Logger
	metrics  *metrics.Metrics
}

// NewCandidateUsecase wires the candidate service. auditLogger and m may be
// nil, in which case nothing is audited or measured.
func NewCandidateUsecase(repo domain.CandidateRepository, validate *validator.Validate, auditLogger *audit.Logger, m *metrics.Metrics) domain.CandidateUsecase {
	if validate == nil {
		validate = validation.New()
	}
	return &candidateUsecase{
		repo:     repo,
		validate: validate,
		audit:    auditLogger,
		metrics:  m,
	}
}

func (u *candidateUsecase) CreateCandidate(ctx context.Context, req *domain.CreateCandidateRequest) (c *domain.Candidate, err error) {
	defer u.observe("create", time.Now(), &err)

	if err = validation.ValidateCreate(u.validate, req); err != nil {
		return nil, err
	}
	input, err := toCreateInput(req)
	if err != nil {
		return nil, err
	}
	input.CreatedBy = domain.ActorFrom(ctx)

	c, err = u.repo.Create(ctx, input)
	var conflict *apperror.ConflictError
	if errors.As(err, &conflict) {
		u.audit.DuplicateEmail(ctx, input.Email)
	}
	if err != nil {
		return nil, err
	}

	u.metrics.IncrementCandidatesCreated()
	u.audit.CandidateCreated(ctx, c)
	return c, nil
}

func (u *candidateUsecase) GetCandidateByID(ctx context.Context, id string) (c *domain.Candidate, err error) {
	defer u.observe("get", time.Now(), &err)

	c, err = u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFound("Candidate", id)
	}
	return c, nil
}

func (u *candidateUsecase) UpdateCandidate(ctx context.Context, id string, req *domain.UpdateCandidateRequest) (c *domain.Candidate, err error) {
	defer u.observe("update", time.Now(), &err)

	if err = validation.ValidateUpdate(u.validate, req); err != nil {
		return nil, err
	}
	input, err := toUpdateInput(req)
	if err != nil {
		return nil, err
	}
	input.UpdatedBy = domain.ActorFrom(ctx)

	c, err = u.repo.Update(ctx, id, input)
	var precondition *apperror.PreconditionFailedError
	if errors.As(err, &precondition) {
		u.audit.ConcurrentUpdate(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	u.audit.CandidateUpdated(ctx, c)
	return c, nil
}

func (u *candidateUsecase) DeleteCandidate(ctx context.Context, id string) (err error) {
	defer u.observe("delete", time.Now(), &err)

	if err = u.repo.Delete(ctx, id); err != nil {
		return err
	}
	u.audit.CandidateDeleted(ctx, id)
	return nil
}

func (u *candidateUsecase) ListCandidates(ctx context.Context, opts domain.PaginationOptions) (res *domain.PaginatedResult[domain.Candidate], err error) {
	defer u.observe("list", time.Now(), &err)

	return u.repo.List(ctx, opts)
}

func (u *candidateUsecase) observe(operation string, start time.Time, err *error) {
	u.metrics.ObserveOperation(operation, start, *err)
}

func toCreateInput(req *domain.CreateCandidateRequest) (*domain.CreateCandidateInput, error) {
	input := &domain.CreateCandidateInput{
		Name:              *req.Name,
		Email:             *req.Email,
		Phone:             req.Phone,
		Position:          *req.Position,
		Status:            statusOf(req.Status),
		InterviewStage:    stageOf(req.InterviewStage),
		ExpectedSalary:    req.ExpectedSalary,
		YearsOfExperience: req.YearsOfExperience,
		Notes:             req.Notes,
	}
	date, err := parseDate(req.ApplicationDate)
	if err != nil {
		return nil, err
	}
	input.ApplicationDate = date
	return input, nil
}

func toUpdateInput(req *domain.UpdateCandidateRequest) (*domain.UpdateCandidateInput, error) {
	input := &domain.UpdateCandidateInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Position:          req.Position,
		Status:            statusOf(req.Status),
		InterviewStage:    stageOf(req.InterviewStage),
		ExpectedSalary:    req.ExpectedSalary,
		YearsOfExperience: req.YearsOfExperience,
		Notes:             req.Notes,
	}
	date, err := parseDate(req.ApplicationDate)
	if err != nil {
		return nil, err
	}
	input.ApplicationDate = date
	return input, nil
}

func statusOf(s *string) *domain.CandidateStatus {
	if s == nil {
		return nil
	}
	v := domain.CandidateStatus(*s)
	return &v
}

func stageOf(s *string) *domain.InterviewStage {
	if s == nil {
		return nil
	}
	v := domain.InterviewStage(*s)
	return &v
}

func parseDate(d *domain.DateInput) (*time.Time, error) {
	if d == nil {
		return nil, nil
	}
	t, err := d.Parse()
	if err != nil {
		return nil, apperror.NewValidation("Application date must be an ISO-8601 datetime", "applicationDate")
	}
	return &t, nil
}
