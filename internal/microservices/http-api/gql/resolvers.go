package gql

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quotehub/internal/microservices/http-api/dto"
	"quotehub/internal/microservices/http-api/models"
	"quotehub/internal/microservices/http-api/service"

	"github.com/graphql-go/graphql"
)

const (
	validationPrefix = "Validation Error: "
	internalMessage  = "An unexpected error occurred."
)

type userIDKey struct{}

// WithUserID attaches the authenticated caller to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// Resolver holds the field resolvers. Results are plain maps so that timestamps and
// the optional per-caller fields serialize exactly as the schema states.
type Resolver struct {
	quotes service.QuoteService
	auth   service.AuthService
	logger *slog.Logger
}

func NewResolver(quotes service.QuoteService, auth service.AuthService, logger *slog.Logger) *Resolver {
	return &Resolver{quotes: quotes, auth: auth, logger: logger}
}

func (r *Resolver) RandomQuote(p graphql.ResolveParams) (interface{}, error) {
	quote, err := r.quotes.GetRandomQuote(p.Context, userIDFrom(p.Context))
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return annotatedQuoteMap(quote), nil
}

func (r *Resolver) LikedQuotes(p graphql.ResolveParams) (interface{}, error) {
	userID := userIDFrom(p.Context)
	if userID == "" {
		return nil, service.ErrAuthRequired
	}
	page, err := pageArg(p.Args)
	if err != nil {
		return nil, err
	}

	result, err := r.quotes.GetLikedQuotes(p.Context, userID, page)
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return paginatedMap(result), nil
}

func (r *Resolver) SearchQuotes(p graphql.ResolveParams) (interface{}, error) {
	page, err := pageArg(p.Args)
	if err != nil {
		return nil, err
	}
	term, _ := p.Args["term"].(string)

	result, err := r.quotes.SearchQuotes(p.Context, term, userIDFrom(p.Context), page)
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return paginatedMap(result), nil
}

func (r *Resolver) Register(p graphql.ResolveParams) (interface{}, error) {
	req := dto.RegisterRequest{
		Name:     stringArg(p.Args, "name"),
		Email:    stringArg(p.Args, "email"),
		Password: stringArg(p.Args, "password"),
	}
	if err := dto.Validate(req); err != nil {
		return nil, errors.New(validationPrefix + err.Error())
	}

	user, err := r.auth.Register(p.Context, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return userMap(user), nil
}

func (r *Resolver) Login(p graphql.ResolveParams) (interface{}, error) {
	req := dto.LoginRequest{
		Email:    stringArg(p.Args, "email"),
		Password: stringArg(p.Args, "password"),
	}
	if err := dto.Validate(req); err != nil {
		return nil, errors.New(validationPrefix + err.Error())
	}

	token, user, err := r.auth.Login(p.Context, req.Email, req.Password)
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return map[string]interface{}{
		"token": token,
		"user":  userMap(user),
	}, nil
}

func (r *Resolver) LikeQuote(p graphql.ResolveParams) (interface{}, error) {
	userID := userIDFrom(p.Context)
	if userID == "" {
		return nil, service.ErrAuthRequired
	}
	quoteID, err := quoteIDArg(p.Args)
	if err != nil {
		return nil, err
	}

	quote, err := r.quotes.LikeQuote(p.Context, userID, quoteID)
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return quoteMap(quote), nil
}

func (r *Resolver) RateQuote(p graphql.ResolveParams) (interface{}, error) {
	userID := userIDFrom(p.Context)
	if userID == "" {
		return nil, service.ErrAuthRequired
	}
	quoteID, err := quoteIDArg(p.Args)
	if err != nil {
		return nil, err
	}
	rating, _ := p.Args["rating"].(int)
	if err := dto.Validate(dto.RateQuoteRequest{Rating: rating}); err != nil {
		return nil, errors.New(validationPrefix + err.Error())
	}

	quote, err := r.quotes.RateQuote(p.Context, userID, quoteID, rating)
	if err != nil {
		return nil, r.toGraphQLError(p, err)
	}
	return annotatedQuoteMap(quote), nil
}

// toGraphQLError keeps the message of known failures and hides everything else.
func (r *Resolver) toGraphQLError(p graphql.ResolveParams, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return errors.New(validationPrefix + service.ValidationMessage(err))
	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrQuoteNotFound),
		errors.Is(err, service.ErrNoQuotes),
		errors.Is(err, service.ErrEmailInUse):
		return err
	default:
		r.logger.ErrorContext(p.Context, "graphql resolver failed",
			slog.String("field", p.Info.FieldName),
			slog.Any("error", err))
		return errors.New(internalMessage)
	}
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func pageArg(args map[string]interface{}) (int, error) {
	page, ok := args["page"].(int)
	if !ok {
		return 1, nil
	}
	if page < 1 {
		return 0, errors.New(validationPrefix + "page must be a positive integer")
	}
	return page, nil
}

func quoteIDArg(args map[string]interface{}) (int64, error) {
	id, _ := args["quoteId"].(int)
	if id < 1 {
		return 0, errors.New(validationPrefix + "quoteId must be a positive integer")
	}
	return int64(id), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func quoteMap(q *models.Quote) map[string]interface{} {
	return map[string]interface{}{
		"id":            int(q.ID),
		"content":       q.Content,
		"author":        q.Author,
		"totalLikes":    q.TotalLikes,
		"totalRatings":  q.TotalRatings,
		"averageRating": q.AverageRating,
		"createdAt":     formatTime(q.CreatedAt),
	}
}

func annotatedQuoteMap(q *models.AnnotatedQuote) map[string]interface{} {
	m := quoteMap(&q.Quote)
	m["liked"] = q.Liked
	m["userRating"] = q.UserRating
	return m
}

func paginatedMap(page *service.PaginatedQuotes) map[string]interface{} {
	quotes := make([]interface{}, len(page.Quotes))
	for i := range page.Quotes {
		quotes[i] = annotatedQuoteMap(&page.Quotes[i])
	}
	return map[string]interface{}{
		"quotes": quotes,
		"pagination": map[string]interface{}{
			"currentPage": page.Pagination.CurrentPage,
			"totalPages":  page.Pagination.TotalPages,
			"totalCount":  int(page.Pagination.TotalCount),
		},
	}
}

func userMap(u *models.User) map[string]interface{} {
	m := map[string]interface{}{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
	if !u.CreatedAt.IsZero() {
		m["createdAt"] = formatTime(u.CreatedAt)
	}
	return m
}
