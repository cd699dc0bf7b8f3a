package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quotehub/internal/microservices/http-api/middleware"
	"quotehub/internal/microservices/http-api/models"
	"quotehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) GetRandomQuote(ctx context.Context, userID string) (*models.AnnotatedQuote, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotatedQuote), args.Error(1)
}

func (m *MockQuoteService) LikeQuote(ctx context.Context, userID string, quoteID int64) (*models.Quote, error) {
	args := m.Called(ctx, userID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuoteService) RateQuote(ctx context.Context, userID string, quoteID int64, rating int) (*models.AnnotatedQuote, error) {
	args := m.Called(ctx, userID, quoteID, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotatedQuote), args.Error(1)
}

func (m *MockQuoteService) SearchQuotes(ctx context.Context, term, userID string, page int) (*service.PaginatedQuotes, error) {
	args := m.Called(ctx, term, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaginatedQuotes), args.Error(1)
}

func (m *MockQuoteService) GetLikedQuotes(ctx context.Context, userID string, page int) (*service.PaginatedQuotes, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaginatedQuotes), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

// ValidateToken accepts exactly one token so route protection can be exercised
// without signing anything.
func (m *MockAuthService) ValidateToken(_ context.Context, token string) (*service.Claims, error) {
	if token == "good-token" {
		return &service.Claims{ID: "user-1", Email: "ada@example.com"}, nil
	}
	return nil, service.ErrInvalidToken
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error {
	return p.err
}

var errDatabaseDown = errors.New("dial tcp: connection refused")

type fixture struct {
	quotes *MockQuoteService
	auth   *MockAuthService
	router *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{quotes: new(MockQuoteService), auth: new(MockAuthService)}
	f.router = NewRouter(RouterDeps{
		Logger:       discardLogger,
		QuoteService: f.quotes,
		AuthService:  f.auth,
		DB:           stubPinger{},
		CORSOrigins:  []string{"*"},
	})
	return f
}

func (f *fixture) request(method, target, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func newTestLimiter(t *testing.T, perMinute int) *middleware.IPRateLimiter {
	t.Helper()
	rl := middleware.NewIPRateLimiter(perMinute, time.Minute, discardLogger)
	t.Cleanup(rl.Stop)
	return rl
}
