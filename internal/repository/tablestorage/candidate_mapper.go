package tablestorage

import (
	"strconv"
	"strings"
	"time"

	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/pkg/tablestore"
)

// Stored property names.
const (
	propID                = "id"
	propName              = "name"
	propEmail             = "email"
	propPhone             = "phone"
	propPosition          = "position"
	propStatus            = "status"
	propInterviewStage    = "interviewStage"
	propApplicationDate   = "applicationDate"
	propExpectedSalary    = "expectedSalary"
	propYearsOfExperience = "yearsOfExperience"
	propNotes             = "notes"
	propCreatedAt         = "createdAt"
	propUpdatedAt         = "updatedAt"
	propCreatedBy         = "createdBy"
	propUpdatedBy         = "updatedBy"
)

// ToTableEntity flattens a candidate into a table entity. The table cannot
// hold nulls on these columns, so absent optional strings become "" and
// absent optional numbers become 0.
func ToTableEntity(c *domain.Candidate) tablestore.Entity {
	return tablestore.Entity{
		PartitionKey: c.PartitionKey,
		RowKey:       c.RowKey,
		ETag:         c.VersionTag,
		Properties: map[string]any{
			propID:                c.ID,
			propName:              c.Name,
			propEmail:             c.Email,
			propPhone:             stringOrEmpty(c.Phone),
			propPosition:          c.Position,
			propStatus:            string(c.Status),
			propInterviewStage:    string(c.InterviewStage),
			propApplicationDate:   c.ApplicationDate.UTC(),
			propExpectedSalary:    floatOrZero(c.ExpectedSalary),
			propYearsOfExperience: floatOrZero(c.YearsOfExperience),
			propNotes:             stringOrEmpty(c.Notes),
			propCreatedAt:         c.CreatedAt.UTC(),
			propUpdatedAt:         c.UpdatedAt.UTC(),
			propCreatedBy:         stringOrEmpty(c.CreatedBy),
			propUpdatedBy:         stringOrEmpty(c.UpdatedBy),
		},
	}
}

// FromTableEntity rebuilds a candidate from a table entity. Empty strings and
// zero numbers on optional fields read back as absent.
func FromTableEntity(e tablestore.Entity) *domain.Candidate {
	p := e.Properties

	c := &domain.Candidate{
		ID:                stringProp(p, propID),
		PartitionKey:      e.PartitionKey,
		RowKey:            e.RowKey,
		VersionTag:        e.ETag,
		Name:              stringProp(p, propName),
		Email:             stringProp(p, propEmail),
		Phone:             optionalString(p, propPhone),
		Position:          stringProp(p, propPosition),
		Status:            domain.CandidateStatus(stringProp(p, propStatus)),
		InterviewStage:    domain.InterviewStage(stringProp(p, propInterviewStage)),
		ApplicationDate:   timeProp(p, propApplicationDate),
		ExpectedSalary:    optionalFloat(p, propExpectedSalary),
		YearsOfExperience: optionalFloat(p, propYearsOfExperience),
		Notes:             optionalString(p, propNotes),
		CreatedAt:         timeProp(p, propCreatedAt),
		UpdatedAt:         timeProp(p, propUpdatedAt),
		CreatedBy:         optionalString(p, propCreatedBy),
		UpdatedBy:         optionalString(p, propUpdatedBy),
	}
	if c.ID == "" {
		c.ID = e.RowKey
	}
	if !e.Timestamp.IsZero() {
		ts := e.Timestamp.UTC()
		c.Timestamp = &ts
	}
	return c
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func stringProp(p map[string]any, name string) string {
	s, _ := p[name].(string)
	return s
}

func optionalString(p map[string]any, name string) *string {
	s := stringProp(p, name)
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat(p map[string]any, name string) *float64 {
	f, ok := toFloat(p[name])
	if !ok || f == 0 {
		return nil
	}
	return &f
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// timeProp accepts native times and the string forms a store may hand back.
func timeProp(p map[string]any, name string) time.Time {
	switch x := p[name].(type) {
	case time.Time:
		return x.UTC()
	case *time.Time:
		if x != nil {
			return x.UTC()
		}
	case string:
		if t, err := domain.ParseISODate(x); err == nil {
			return t
		}
	}
	return time.Time{}
}
