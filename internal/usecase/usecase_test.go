package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/internal/repository/tablestorage"
	"candidate-tracking-backend/internal/usecase"
	"candidate-tracking-backend/pkg/apperror"
	"candidate-tracking-backend/pkg/tablestore"
	"candidate-tracking-backend/pkg/validation"
)

func ptr[T any](v T) *T { return &v }

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Create(ctx context.Context, input *domain.CreateCandidateInput) (*domain.Candidate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Update(ctx context.Context, id string, input *domain.UpdateCandidateInput) (*domain.Candidate, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCandidateRepo) List(ctx context.Context, opts domain.PaginationOptions) (*domain.PaginatedResult[domain.Candidate], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.Candidate]), args.Error(1)
}

func validCreate() *domain.CreateCandidateRequest {
	return &domain.CreateCandidateRequest{
		Name:     ptr("John Doe"),
		Email:    ptr("john@example.com"),
		Position: ptr("Engineer"),
	}
}

func TestCreateCandidate_ValidationStopsBeforeRepository(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

	req := validCreate()
	req.Email = ptr("invalid-email")
	_, err := uc.CreateCandidate(context.Background(), req)

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCandidate_MapsRequestToInput(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "recruiter-1")

	req := validCreate()
	req.Status = ptr("offer")
	req.ApplicationDate = domain.DateString("2025-01-15T10:30:00.000Z")
	req.YearsOfExperience = ptr(0.0)

	want := &domain.Candidate{ID: "c-1"}
	repo.On("Create", ctx, mock.MatchedBy(func(in *domain.CreateCandidateInput) bool {
		return in.Name == "John Doe" &&
			in.Status != nil && *in.Status == domain.StatusOffer &&
			in.InterviewStage == nil &&
			in.ApplicationDate != nil && in.ApplicationDate.Equal(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)) &&
			in.YearsOfExperience != nil && *in.YearsOfExperience == 0 &&
			in.CreatedBy != nil && *in.CreatedBy == "recruiter-1"
	})).Return(want, nil)

	got, err := uc.CreateCandidate(ctx, req)
	require.NoError(t, err)
	assert.Same(t, want, got)
	repo.AssertExpectations(t)
}

func TestCreateCandidate_PropagatesRepositoryErrors(t *testing.T) {
	tests := []error{
		apperror.NewConflict("Candidate with email john@example.com already exists"),
		apperror.NewDatabase("Failed to create candidate", errors.New("timeout")),
	}
	for _, repoErr := range tests {
		repo := new(MockCandidateRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil, repoErr)
		uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

		_, err := uc.CreateCandidate(context.Background(), validCreate())
		assert.Same(t, repoErr, err)
	}
}

func TestGetCandidateByID(t *testing.T) {
	t.Run("absent becomes NotFoundError", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)
		uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

		_, err := uc.GetCandidateByID(context.Background(), "missing")
		var nf *apperror.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Candidate with id missing not found", err.Error())
	})

	t.Run("database errors pass through", func(t *testing.T) {
		dbErr := apperror.NewDatabase("Failed to retrieve candidate with id x", errors.New("io"))
		repo := new(MockCandidateRepo)
		repo.On("FindByID", mock.Anything, "x").Return(nil, dbErr)
		uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

		_, err := uc.GetCandidateByID(context.Background(), "x")
		assert.Same(t, dbErr, err)
	})
}

func TestUpdateCandidate(t *testing.T) {
	t.Run("empty update rejected before repository", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

		_, err := uc.UpdateCandidate(context.Background(), "c-1", &domain.UpdateCandidateRequest{})
		var ve *apperror.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, validation.ErrEmptyUpdate, ve.Message)
		assert.Empty(t, ve.Field)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("actor recorded as updatedBy", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)
		ctx := context.WithValue(context.Background(), domain.KeyUserID, "recruiter-2")

		repo.On("Update", ctx, "c-1", mock.MatchedBy(func(in *domain.UpdateCandidateInput) bool {
			return in.UpdatedBy != nil && *in.UpdatedBy == "recruiter-2" &&
				in.Status != nil && *in.Status == domain.StatusHired && in.Name == nil
		})).Return(&domain.Candidate{ID: "c-1", Status: domain.StatusHired}, nil)

		got, err := uc.UpdateCandidate(ctx, "c-1", &domain.UpdateCandidateRequest{Status: ptr("hired")})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusHired, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("precondition failure passes through", func(t *testing.T) {
		pf := apperror.NewPreconditionFailed("stale")
		repo := new(MockCandidateRepo)
		repo.On("Update", mock.Anything, "c-1", mock.Anything).Return(nil, pf)
		uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

		_, err := uc.UpdateCandidate(context.Background(), "c-1", &domain.UpdateCandidateRequest{Name: ptr("X")})
		assert.Same(t, pf, err)
	})
}

func TestDeleteAndList_Delegate(t *testing.T) {
	repo := new(MockCandidateRepo)
	nf := apperror.NewNotFound("Candidate", "gone")
	opts := domain.PaginationOptions{PageSize: 5, SortBy: domain.SortByName}
	page := &domain.PaginatedResult[domain.Candidate]{PageSize: 5}
	repo.On("Delete", mock.Anything, "gone").Return(nf)
	repo.On("List", mock.Anything, opts).Return(page, nil)
	uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)

	assert.Same(t, nf, uc.DeleteCandidate(context.Background(), "gone"))
	got, err := uc.ListCandidates(context.Background(), opts)
	require.NoError(t, err)
	assert.Same(t, page, got)
}

func TestOperationsAreMeasured(t *testing.T) {
	repo := new(MockCandidateRepo)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)
	m := metrics.New(prometheus.NewRegistry())
	uc := usecase.NewCandidateUsecase(repo, validation.New(), nil, m)

	_, _ = uc.GetCandidateByID(context.Background(), "missing")
	_, _ = uc.UpdateCandidate(context.Background(), "x", &domain.UpdateCandidateRequest{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("get", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("update", "validation_error")))
}

// The scenarios below run the service over the real repository and an
// in-memory table.
func newMemoryService(now func() time.Time) domain.CandidateUsecase {
	repo := tablestorage.NewCandidateRepository(tablestore.NewMemoryStore(), tablestorage.WithClock(now))
	return usecase.NewCandidateUsecase(repo, validation.New(), nil, nil)
}

func TestScenario_CreateWithDefaults(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc := newMemoryService(func() time.Time { return now })

	c, err := svc.CreateCandidate(context.Background(), validCreate())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, c.Status)
	assert.Equal(t, domain.StageNotStarted, c.InterviewStage)
	assert.Equal(t, c.ID, c.RowKey)
	assert.Equal(t, "CANDIDATE_2024-05", c.PartitionKey)
	assert.True(t, c.ApplicationDate.Equal(now))

	got, err := svc.GetCandidateByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)
}

func TestScenario_DuplicateEmail(t *testing.T) {
	svc := newMemoryService(time.Now)
	_, err := svc.CreateCandidate(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = svc.CreateCandidate(context.Background(), validCreate())
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestScenario_BlankNameRejected(t *testing.T) {
	svc := newMemoryService(time.Now)

	req := validCreate()
	req.Name = ptr("   ")
	var (
		c   *domain.Candidate
		err error
	)
	require.NotPanics(t, func() { c, err = svc.CreateCandidate(context.Background(), req) })
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Nil(t, c)

	c, err = svc.CreateCandidate(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = svc.UpdateCandidate(context.Background(), c.ID, &domain.UpdateCandidateRequest{Name: ptr(" ")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	got, err := svc.GetCandidateByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
}

func TestScenario_UpdateMissingCandidate(t *testing.T) {
	svc := newMemoryService(time.Now)
	_, err := svc.UpdateCandidate(context.Background(), "ghost", &domain.UpdateCandidateRequest{Name: ptr("X")})
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.ID)
}

func TestScenario_DeleteThenGet(t *testing.T) {
	svc := newMemoryService(time.Now)
	c, err := svc.CreateCandidate(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCandidate(context.Background(), c.ID))
	_, err = svc.GetCandidateByID(context.Background(), c.ID)
	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestHealthUsecase(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	t.Run("all healthy", func(t *testing.T) {
		h := usecase.NewHealthUsecase("svc", "1.0.0", time.Second,
			usecase.Probe{Name: "store", Critical: true, Check: ok},
			usecase.Probe{Name: "redis", Check: ok},
		)
		report := h.Check(context.Background())
		assert.Equal(t, usecase.StatusHealthy, report.Status)
		assert.Equal(t, map[string]string{"store": "ok", "redis": "ok"}, report.Checks)
	})

	t.Run("optional dependency degrades", func(t *testing.T) {
		h := usecase.NewHealthUsecase("svc", "1.0.0", time.Second,
			usecase.Probe{Name: "store", Critical: true, Check: ok},
			usecase.Probe{Name: "redis", Check: fail},
		)
		assert.Equal(t, usecase.StatusDegraded, h.Check(context.Background()).Status)
	})

	t.Run("critical dependency fails", func(t *testing.T) {
		h := usecase.NewHealthUsecase("svc", "1.0.0", time.Second,
			usecase.Probe{Name: "store", Critical: true, Check: fail},
			usecase.Probe{Name: "redis", Check: fail},
		)
		report := h.Check(context.Background())
		assert.Equal(t, usecase.StatusDown, report.Status)
		assert.Equal(t, "error", report.Checks["store"])
	})

	t.Run("slow probe is bounded", func(t *testing.T) {
		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}
		h := usecase.NewHealthUsecase("svc", "1.0.0", 20*time.Millisecond,
			usecase.Probe{Name: "store", Critical: true, Check: slow})
		assert.Equal(t, usecase.StatusDown, h.Check(context.Background()).Status)
	})
}
