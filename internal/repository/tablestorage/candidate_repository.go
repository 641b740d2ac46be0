package tablestorage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/pkg/apperror"
	"candidate-tracking-backend/pkg/tablestore"
)

const entityName = "Candidate"

type candidateRepo struct {
	store tablestore.Store
	now   func() time.Time
	newID func() string
}

type Option func(*candidateRepo)

// WithClock overrides the time source for partition keys and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *candidateRepo) { r.now = now }
}

// WithIDGenerator overrides candidate id generation.
func WithIDGenerator(newID func() string) Option {
	return func(r *candidateRepo) { r.newID = newID }
}

func NewCandidateRepository(store tablestore.Store, opts ...Option) domain.CandidateRepository {
	r := &candidateRepo{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PartitionKeyFor returns the partition a candidate created at t lands in.
func PartitionKeyFor(t time.Time) string {
	return domain.PartitionPrefix + t.UTC().Format("2006-01")
}

func (r *candidateRepo) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	page, err := r.store.ListEntities(ctx, tablestore.ListOptions{
		Filter:      tablestore.Eq(tablestore.RowKeyProperty, id),
		MaxPageSize: 1,
	})
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Sprintf("Failed to retrieve candidate with id %s", id), err)
	}
	if len(page.Items) == 0 {
		return nil, nil
	}
	return FromTableEntity(page.Items[0]), nil
}

func (r *candidateRepo) Create(ctx context.Context, input *domain.CreateCandidateInput) (*domain.Candidate, error) {
	existing, err := r.store.ListEntities(ctx, tablestore.ListOptions{
		Filter:      tablestore.Eq(propEmail, input.Email),
		MaxPageSize: 1,
	})
	if err != nil {
		return nil, apperror.NewDatabase("Failed to create candidate", err)
	}
	if len(existing.Items) > 0 {
		return nil, apperror.NewConflict(fmt.Sprintf("Candidate with email %s already exists", input.Email))
	}

	now := r.now().UTC()
	id := r.newID()
	c := &domain.Candidate{
		ID:                id,
		PartitionKey:      PartitionKeyFor(now),
		RowKey:            id,
		Name:              input.Name,
		Email:             input.Email,
		Phone:             nonEmpty(input.Phone),
		Position:          input.Position,
		Status:            domain.StatusNew,
		InterviewStage:    domain.StageNotStarted,
		ApplicationDate:   now,
		ExpectedSalary:    input.ExpectedSalary,
		YearsOfExperience: input.YearsOfExperience,
		Notes:             nonEmpty(input.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         input.CreatedBy,
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	if input.InterviewStage != nil {
		c.InterviewStage = *input.InterviewStage
	}
	if input.ApplicationDate != nil {
		c.ApplicationDate = input.ApplicationDate.UTC()
	}

	stored, err := r.store.PutEntity(ctx, ToTableEntity(c))
	if err != nil {
		return nil, apperror.NewDatabase("Failed to create candidate", err)
	}
	stamp(c, stored)
	return c, nil
}

func (r *candidateRepo) Update(ctx context.Context, id string, input *domain.UpdateCandidateInput) (*domain.Candidate, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFound(entityName, id)
	}

	updated := *existing
	applyUpdate(&updated, input)

	// Immutable attributes always come from the stored record.
	updated.ID = existing.ID
	updated.PartitionKey = existing.PartitionKey
	updated.RowKey = existing.RowKey
	updated.CreatedAt = existing.CreatedAt

	now := r.now().UTC()
	if floor := existing.UpdatedAt.Add(time.Millisecond); now.Before(floor) {
		now = floor
	}
	updated.UpdatedAt = now

	mode, etag := tablestore.Merge, ""
	if existing.VersionTag != "" {
		mode, etag = tablestore.Replace, existing.VersionTag
	}

	stored, err := r.store.UpdateEntity(ctx, ToTableEntity(&updated), mode, etag)
	switch {
	case errors.Is(err, tablestore.ErrPreconditionFailed):
		return nil, apperror.NewPreconditionFailed(
			fmt.Sprintf("Candidate with id %s was modified by another request", id))
	case errors.Is(err, tablestore.ErrNotFound):
		return nil, apperror.NewNotFound(entityName, id)
	case err != nil:
		return nil, apperror.NewDatabase(fmt.Sprintf("Failed to update candidate with id %s", id), err)
	}
	stamp(&updated, stored)
	return &updated, nil
}

func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFound(entityName, id)
	}

	err = r.store.DeleteEntity(ctx, existing.PartitionKey, existing.RowKey)
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		return apperror.NewNotFound(entityName, id)
	case err != nil:
		return apperror.NewDatabase(fmt.Sprintf("Failed to delete candidate with id %s", id), err)
	}
	return nil
}

func (r *candidateRepo) List(ctx context.Context, opts domain.PaginationOptions) (*domain.PaginatedResult[domain.Candidate], error) {
	pageSize := opts.EffectivePageSize()

	page, err := r.store.ListEntities(ctx, tablestore.ListOptions{
		MaxPageSize:       pageSize,
		ContinuationToken: opts.ContinuationToken,
	})
	if errors.Is(err, tablestore.ErrInvalidToken) {
		return nil, apperror.NewValidation("Invalid continuation token", "continuationToken")
	}
	if err != nil {
		return nil, apperror.NewDatabase("Failed to list candidates", err)
	}

	items := make([]domain.Candidate, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, *FromTableEntity(e))
	}
	if opts.SortBy != "" {
		sortCandidates(items, opts.SortBy, opts.SortDirection)
	}

	return &domain.PaginatedResult[domain.Candidate]{
		Items:             items,
		ContinuationToken: page.ContinuationToken,
		PageSize:          pageSize,
	}, nil
}

func applyUpdate(c *domain.Candidate, in *domain.UpdateCandidateInput) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = nonEmpty(in.Phone)
	}
	if in.Position != nil {
		c.Position = *in.Position
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.InterviewStage != nil {
		c.InterviewStage = *in.InterviewStage
	}
	if in.ApplicationDate != nil {
		c.ApplicationDate = in.ApplicationDate.UTC()
	}
	if in.ExpectedSalary != nil {
		c.ExpectedSalary = in.ExpectedSalary
	}
	if in.YearsOfExperience != nil {
		c.YearsOfExperience = in.YearsOfExperience
	}
	if in.Notes != nil {
		c.Notes = nonEmpty(in.Notes)
	}
	if in.UpdatedBy != nil {
		c.UpdatedBy = in.UpdatedBy
	}
}

// nonEmpty maps "" to nil. The table stores absent optional strings as "",
// so keeping "" would make the returned candidate differ from a later read.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func stamp(c *domain.Candidate, stored tablestore.Entity) {
	c.VersionTag = stored.ETag
	if !stored.Timestamp.IsZero() {
		ts := stored.Timestamp.UTC()
		c.Timestamp = &ts
	}
}

// sortCandidates orders one fetched page. It never reaches across pages.
func sortCandidates(items []domain.Candidate, by domain.SortField, dir domain.SortDirection) {
	var compare func(a, b *domain.Candidate) int
	switch by {
	case domain.SortByName:
		col := collate.New(language.English)
		compare = func(a, b *domain.Candidate) int { return col.CompareString(a.Name, b.Name) }
	case domain.SortByApplicationDate:
		compare = func(a, b *domain.Candidate) int { return a.ApplicationDate.Compare(b.ApplicationDate) }
	case domain.SortByStatus:
		compare = func(a, b *domain.Candidate) int { return strings.Compare(string(a.Status), string(b.Status)) }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		cmp := compare(&items[i], &items[j])
		if dir == domain.SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}
