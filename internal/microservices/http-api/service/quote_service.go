package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"quotehub/internal/metrics"
	"quotehub/internal/microservices/http-api/models"
	"quotehub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

const (
	PageSize = 10

	// MinSearchTermLength is counted in runes after trimming.
	MinSearchTermLength = 2

	// callers with fewer likes+ratings than this may be steered to the top rated pool
	lowEngagementThreshold = 5
	biasProbability        = 0.5
	topRatedMinAverage     = 4.0
	topRatedMinRatings     = 2
)

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
}

type PaginatedQuotes struct {
	Quotes     []models.AnnotatedQuote `json:"quotes"`
	Pagination Pagination              `json:"pagination"`
}

// QuoteService selects, mutates and pages quotes on behalf of one caller.
// An empty userID means an anonymous caller; only GetRandomQuote and SearchQuotes accept one.
type QuoteService interface {
	GetRandomQuote(ctx context.Context, userID string) (*models.AnnotatedQuote, error)
	LikeQuote(ctx context.Context, userID string, quoteID int64) (*models.Quote, error)
	RateQuote(ctx context.Context, userID string, quoteID int64, rating int) (*models.AnnotatedQuote, error)
	SearchQuotes(ctx context.Context, term, userID string, page int) (*PaginatedQuotes, error)
	GetLikedQuotes(ctx context.Context, userID string, page int) (*PaginatedQuotes, error)
}

type quoteService struct {
	repo     repository.QuoteRepository
	cache    repository.TopQuotesCache
	rnd      Randomizer
	recorder metrics.Recorder
	logger   *slog.Logger
}

func NewQuoteService(
	repo repository.QuoteRepository,
	cache repository.TopQuotesCache,
	rnd Randomizer,
	recorder metrics.Recorder,
	logger *slog.Logger,
) QuoteService {
	if cache == nil {
		cache = repository.NopTopQuotesCache{}
	}
	if rnd == nil {
		rnd = DefaultRandomizer()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &quoteService{
		repo:     repo,
		cache:    cache,
		rnd:      rnd,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "quote_service")),
	}
}

func (s *quoteService) GetRandomQuote(ctx context.Context, userID string) (*models.AnnotatedQuote, error) {
	quote, err := s.pickBiased(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quote != nil {
		s.recorder.RecordRandomPool("biased")
	} else {
		quote, err = s.repo.Random(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoQuotes
		}
		if err != nil {
			return nil, fmt.Errorf("pick random quote: %w", err)
		}
		s.recorder.RecordRandomPool("general")
	}

	annotated := &models.AnnotatedQuote{Quote: *quote}
	if userID == "" {
		return annotated, nil
	}

	liked, ratings, err := s.repo.UserAnnotations(ctx, userID, []int64{quote.ID})
	if err != nil {
		return nil, err
	}
	annotated.Liked = liked[quote.ID]
	annotated.UserRating = ratings[quote.ID]
	return annotated, nil
}

// pickBiased returns a quote from the top rated pool for an under engaged caller who wins
// the coin flip, or nil when the general pool should be used instead.
func (s *quoteService) pickBiased(ctx context.Context, userID string) (*models.Quote, error) {
	if userID == "" {
		return nil, nil
	}

	engagement, err := s.repo.CountEngagement(ctx, userID)
	if err != nil {
		return nil, err
	}
	if engagement >= lowEngagementThreshold || s.rnd.Float64() >= biasProbability {
		return nil, nil
	}

	ids, err := s.topRatedIDs(ctx, false)
	if err != nil {
		return nil, err
	}
	quote, err := s.pickFromPool(ctx, ids)
	if err != nil || quote != nil {
		return quote, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// The cached pool can predate a rating that dropped its pick out of the pool:
	// a reader may write ids computed before the rater's invalidation landed.
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("top rated cache invalidation failed", slog.Any("error", err))
	}
	ids, err = s.topRatedIDs(ctx, true)
	if err != nil {
		return nil, err
	}
	return s.pickFromPool(ctx, ids)
}

// pickFromPool draws one id from the pool and returns nil when the quote is gone
// or no longer meets the pool's thresholds.
func (s *quoteService) pickFromPool(ctx context.Context, ids []int64) (*models.Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	quote, err := s.repo.GetByID(ctx, ids[s.rnd.IntN(len(ids))])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !isTopRated(quote) {
		return nil, nil
	}
	return quote, nil
}

func isTopRated(q *models.Quote) bool {
	return q.AverageRating >= topRatedMinAverage && q.TotalRatings >= topRatedMinRatings
}

// topRatedIDs reads the pool from the cache unless refresh is set, and recomputes and
// stores it on a miss.
func (s *quoteService) topRatedIDs(ctx context.Context, refresh bool) ([]int64, error) {
	if !refresh {
		ids, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("top rated cache read failed", slog.Any("error", err))
		}
		if ok {
			return ids, nil
		}
	}

	ids, err := s.repo.TopRatedIDs(ctx, topRatedMinAverage, topRatedMinRatings)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, ids); err != nil {
		s.logger.Warn("top rated cache write failed", slog.Any("error", err))
	}
	return ids, nil
}

// LikeQuote toggles the caller's like and returns the quote's fresh counters.
func (s *quoteService) LikeQuote(ctx context.Context, userID string, quoteID int64) (*models.Quote, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	var (
		updated *models.Quote
		liked   bool
	)
	err := s.repo.WithTx(ctx, func(tx repository.QuoteRepository) error {
		if _, err := tx.GetByIDForUpdate(ctx, quoteID); err != nil {
			return notFound(err)
		}

		removed, err := tx.DeleteLike(ctx, userID, quoteID)
		if err != nil {
			return err
		}
		delta := -1
		if !removed {
			created, err := tx.CreateLike(ctx, userID, quoteID)
			if err != nil {
				return err
			}
			// a row that already existed is still liked but must not be counted twice
			liked = true
			delta = 0
			if created {
				delta = 1
			}
		}
		if delta != 0 {
			if err := tx.AdjustTotalLikes(ctx, quoteID, delta); err != nil {
				return err
			}
		}

		updated, err = tx.GetByID(ctx, quoteID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.RecordLikeToggle(liked)
	s.logger.Debug("like toggled",
		slog.Int64("quote_id", quoteID),
		slog.Bool("liked", liked),
		slog.Int("total_likes", updated.TotalLikes))
	return updated, nil
}

// RateQuote stores the caller's rating and recomputes the quote's aggregate from every rating row.
func (s *quoteService) RateQuote(ctx context.Context, userID string, quoteID int64, rating int) (*models.AnnotatedQuote, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, validationError("rating must be an integer between %d and %d", models.MinRating, models.MaxRating)
	}

	var result *models.AnnotatedQuote
	err := s.repo.WithTx(ctx, func(tx repository.QuoteRepository) error {
		quote, err := tx.GetByIDForUpdate(ctx, quoteID)
		if err != nil {
			return notFound(err)
		}

		if err := tx.UpsertRating(ctx, userID, quoteID, rating); err != nil {
			return err
		}

		avg, count, err := tx.RatingStats(ctx, quoteID)
		if err != nil {
			return err
		}
		avg = roundTo2(avg)
		if err := tx.UpdateRatingAggregate(ctx, quoteID, avg, count); err != nil {
			return err
		}

		liked, err := tx.HasLiked(ctx, userID, quoteID)
		if err != nil {
			return err
		}

		quote.AverageRating = avg
		quote.TotalRatings = int(count)
		result = &models.AnnotatedQuote{Quote: *quote, Liked: liked, UserRating: rating}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// after commit; readers re-check thresholds in case an older pool is written back
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("top rated cache invalidation failed", slog.Any("error", err))
	}
	s.recorder.RecordRating(rating)
	return result, nil
}

func (s *quoteService) SearchQuotes(ctx context.Context, term, userID string, page int) (*PaginatedQuotes, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchTermLength {
		return nil, validationError("Search term must be at least %d characters long.", MinSearchTermLength)
	}
	if page < 1 {
		return nil, validationError("page must be 1 or greater")
	}

	quotes, total, err := s.repo.Search(ctx, term, PageSize, offset(page))
	if err != nil {
		return nil, err
	}

	annotated := make([]models.AnnotatedQuote, len(quotes))
	for i, q := range quotes {
		annotated[i] = models.AnnotatedQuote{Quote: q}
	}

	if userID != "" && len(quotes) > 0 {
		ids := make([]int64, len(quotes))
		for i, q := range quotes {
			ids[i] = q.ID
		}
		liked, ratings, err := s.repo.UserAnnotations(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		for i := range annotated {
			annotated[i].Liked = liked[annotated[i].ID]
			annotated[i].UserRating = ratings[annotated[i].ID]
		}
	}

	return &PaginatedQuotes{Quotes: annotated, Pagination: paginate(page, total)}, nil
}

func (s *quoteService) GetLikedQuotes(ctx context.Context, userID string, page int) (*PaginatedQuotes, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	if page < 1 {
		return nil, validationError("page must be 1 or greater")
	}

	quotes, total, err := s.repo.LikedByUser(ctx, userID, PageSize, offset(page))
	if err != nil {
		return nil, err
	}
	return &PaginatedQuotes{Quotes: quotes, Pagination: paginate(page, total)}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuoteNotFound
	}
	return err
}

func offset(page int) int {
	return (page - 1) * PageSize
}

func paginate(page int, total int64) Pagination {
	return Pagination{
		CurrentPage: page,
		TotalPages:  int((total + PageSize - 1) / PageSize),
		TotalCount:  total,
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
