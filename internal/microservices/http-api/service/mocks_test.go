package service

import (
	"context"

	"quotehub/internal/microservices/http-api/models"
	"quotehub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// MockQuoteRepository mocks the QuoteRepository interface.
// WithTx hands the mock itself to the callback.
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) WithTx(ctx context.Context, fn func(tx repository.QuoteRepository) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *MockQuoteRepository) quote(args mock.Arguments) (*models.Quote, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuoteRepository) GetByID(ctx context.Context, id int64) (*models.Quote, error) {
	return m.quote(m.Called(ctx, id))
}

func (m *MockQuoteRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Quote, error) {
	return m.quote(m.Called(ctx, id))
}

func (m *MockQuoteRepository) Random(ctx context.Context) (*models.Quote, error) {
	return m.quote(m.Called(ctx))
}

func (m *MockQuoteRepository) TopRatedIDs(ctx context.Context, minAverage float64, minRatings int) ([]int64, error) {
	args := m.Called(ctx, minAverage, minRatings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockQuoteRepository) CountEngagement(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) CreateLike(ctx context.Context, userID string, quoteID int64) (bool, error) {
	args := m.Called(ctx, userID, quoteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteRepository) DeleteLike(ctx context.Context, userID string, quoteID int64) (bool, error) {
	args := m.Called(ctx, userID, quoteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteRepository) AdjustTotalLikes(ctx context.Context, quoteID int64, delta int) error {
	return m.Called(ctx, quoteID, delta).Error(0)
}

func (m *MockQuoteRepository) HasLiked(ctx context.Context, userID string, quoteID int64) (bool, error) {
	args := m.Called(ctx, userID, quoteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteRepository) UpsertRating(ctx context.Context, userID string, quoteID int64, rating int) error {
	return m.Called(ctx, userID, quoteID, rating).Error(0)
}

func (m *MockQuoteRepository) RatingStats(ctx context.Context, quoteID int64) (float64, int64, error) {
	args := m.Called(ctx, quoteID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) UpdateRatingAggregate(ctx context.Context, quoteID int64, average float64, count int64) error {
	return m.Called(ctx, quoteID, average, count).Error(0)
}

func (m *MockQuoteRepository) Search(ctx context.Context, term string, limit, offset int) ([]models.Quote, int64, error) {
	args := m.Called(ctx, term, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Quote), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) LikedByUser(ctx context.Context, userID string, limit, offset int) ([]models.AnnotatedQuote, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.AnnotatedQuote), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) UserAnnotations(ctx context.Context, userID string, quoteIDs []int64) (map[int64]bool, map[int64]int, error) {
	args := m.Called(ctx, userID, quoteIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(map[int64]bool), args.Get(1).(map[int64]int), args.Error(2)
}

// MockTopQuotesCache mocks the TopQuotesCache interface.
type MockTopQuotesCache struct {
	mock.Mock
}

func (m *MockTopQuotesCache) Get(ctx context.Context) ([]int64, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]int64), args.Bool(1), args.Error(2)
}

func (m *MockTopQuotesCache) Set(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockTopQuotesCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockUserRepository mocks the UserRepository interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// fixedRand returns the same coin value every time and records IntN bounds.
type fixedRand struct {
	coin  float64
	index int
	bound []int
}

func (f *fixedRand) Float64() float64 { return f.coin }

func (f *fixedRand) IntN(n int) int {
	f.bound = append(f.bound, n)
	return f.index % n
}

// countingRecorder captures what the service reports.
type countingRecorder struct {
	pools   map[string]int
	likes   map[bool]int
	ratings map[int]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{pools: map[string]int{}, likes: map[bool]int{}, ratings: map[int]int{}}
}

func (r *countingRecorder) RecordRandomPool(pool string) { r.pools[pool]++ }
func (r *countingRecorder) RecordLikeToggle(liked bool)  { r.likes[liked]++ }
func (r *countingRecorder) RecordRating(rating int)      { r.ratings[rating]++ }
