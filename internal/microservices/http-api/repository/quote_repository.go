package repository

import (
	"context"
	"fmt"
	"strings"

	"quotehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteRepository is the transactional store behind the quote engine.
// Methods called on the repository handed to WithTx's callback run inside that transaction.
type QuoteRepository interface {
	WithTx(ctx context.Context, fn func(tx QuoteRepository) error) error

	GetByID(ctx context.Context, id int64) (*models.Quote, error)
	// GetByIDForUpdate locks the quote row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Quote, error)
	Random(ctx context.Context) (*models.Quote, error)
	TopRatedIDs(ctx context.Context, minAverage float64, minRatings int) ([]int64, error)
	CountEngagement(ctx context.Context, userID string) (int64, error)

	CreateLike(ctx context.Context, userID string, quoteID int64) (bool, error)
	DeleteLike(ctx context.Context, userID string, quoteID int64) (bool, error)
	AdjustTotalLikes(ctx context.Context, quoteID int64, delta int) error
	HasLiked(ctx context.Context, userID string, quoteID int64) (bool, error)

	UpsertRating(ctx context.Context, userID string, quoteID int64, rating int) error
	RatingStats(ctx context.Context, quoteID int64) (average float64, count int64, err error)
	UpdateRatingAggregate(ctx context.Context, quoteID int64, average float64, count int64) error

	Search(ctx context.Context, term string, limit, offset int) ([]models.Quote, int64, error)
	LikedByUser(ctx context.Context, userID string, limit, offset int) ([]models.AnnotatedQuote, int64, error)
	UserAnnotations(ctx context.Context, userID string, quoteIDs []int64) (map[int64]bool, map[int64]int, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) WithTx(ctx context.Context, fn func(tx QuoteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&quoteRepository{db: tx})
	})
}

func (r *quoteRepository) GetByID(ctx context.Context, id int64) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) Random(ctx context.Context) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Take(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) TopRatedIDs(ctx context.Context, minAverage float64, minRatings int) ([]int64, error) {
	ids := make([]int64, 0)
	if err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("average_rating >= ? AND total_ratings >= ?", minAverage, minRatings).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("top rated quotes: %w", err)
	}
	return ids, nil
}

// CountEngagement returns the number of likes plus ratings the user has given.
func (r *quoteRepository) CountEngagement(ctx context.Context, userID string) (int64, error) {
	var likes, ratings int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.QuoteLike{}).Where("user_id = ?", userID).Count(&likes).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	if err := db.Model(&models.QuoteRating{}).Where("user_id = ?", userID).Count(&ratings).Error; err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return likes + ratings, nil
}

// CreateLike inserts the like row; false means it already existed.
func (r *quoteRepository) CreateLike(ctx context.Context, userID string, quoteID int64) (bool, error) {
	like := &models.QuoteLike{UserID: userID, QuoteID: quoteID}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quote_id"}},
			DoNothing: true,
		}).
		Create(like)
	if result.Error != nil {
		return false, fmt.Errorf("create like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteLike removes the like row; false means there was none.
func (r *quoteRepository) DeleteLike(ctx context.Context, userID string, quoteID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND quote_id = ?", userID, quoteID).
		Delete(&models.QuoteLike{})
	if result.Error != nil {
		return false, fmt.Errorf("delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// AdjustTotalLikes applies delta in a single UPDATE, never going below zero.
func (r *quoteRepository) AdjustTotalLikes(ctx context.Context, quoteID int64, delta int) error {
	expr := gorm.Expr("CASE WHEN total_likes + ? < 0 THEN 0 ELSE total_likes + ? END", delta, delta)
	if err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		UpdateColumn("total_likes", expr).Error; err != nil {
		return fmt.Errorf("adjust total likes: %w", err)
	}
	return nil
}

func (r *quoteRepository) HasLiked(ctx context.Context, userID string, quoteID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuoteLike{}).
		Where("user_id = ? AND quote_id = ?", userID, quoteID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertRating inserts the rating or overwrites the caller's previous one.
func (r *quoteRepository) UpsertRating(ctx context.Context, userID string, quoteID int64, rating int) error {
	row := &models.QuoteRating{UserID: userID, QuoteID: quoteID, Rating: rating}
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quote_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// RatingStats aggregates the quote_ratings rows of one quote.
func (r *quoteRepository) RatingStats(ctx context.Context, quoteID int64) (float64, int64, error) {
	var stats struct {
		Average float64
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.QuoteRating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("quote_id = ?", quoteID).
		Scan(&stats).Error; err != nil {
		return 0, 0, fmt.Errorf("rating stats: %w", err)
	}
	return stats.Average, stats.Total, nil
}

func (r *quoteRepository) UpdateRatingAggregate(ctx context.Context, quoteID int64, average float64, count int64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		UpdateColumns(map[string]interface{}{
			"average_rating": average,
			"total_ratings":  count,
		}).Error; err != nil {
		return fmt.Errorf("update rating aggregate: %w", err)
	}
	return nil
}

// Search matches term as a case-insensitive literal substring of content or author.
// The count and the page use the same filter.
func (r *quoteRepository) Search(ctx context.Context, term string, limit, offset int) ([]models.Quote, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Scopes(matchContentOrAuthor(term)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	list := make([]models.Quote, 0, limit)
	if total == 0 {
		return list, 0, nil
	}
	if err := r.db.WithContext(ctx).
		Scopes(matchContentOrAuthor(term)).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("search quotes: %w", err)
	}
	return list, total, nil
}

func matchContentOrAuthor(term string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(content) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type likedQuoteRow struct {
	models.Quote
	UserRating int
}

// LikedByUser pages through the quotes the user likes, newest quote first,
// together with the user's own rating of each (0 when unrated).
func (r *quoteRepository) LikedByUser(ctx context.Context, userID string, limit, offset int) ([]models.AnnotatedQuote, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuoteLike{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count liked quotes: %w", err)
	}

	out := make([]models.AnnotatedQuote, 0, limit)
	if total == 0 {
		return out, 0, nil
	}

	var rows []likedQuoteRow
	if err := r.db.WithContext(ctx).
		Table("quotes").
		Select("quotes.*, COALESCE(quote_ratings.rating, 0) AS user_rating").
		Joins("JOIN quote_likes ON quote_likes.quote_id = quotes.id AND quote_likes.user_id = ?", userID).
		Joins("LEFT JOIN quote_ratings ON quote_ratings.quote_id = quotes.id AND quote_ratings.user_id = ?", userID).
		Order("quotes.created_at DESC").
		Order("quotes.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list liked quotes: %w", err)
	}

	for _, row := range rows {
		out = append(out, models.AnnotatedQuote{Quote: row.Quote, Liked: true, UserRating: row.UserRating})
	}
	return out, total, nil
}

// UserAnnotations looks up the user's likes and ratings for a set of quotes in two queries.
func (r *quoteRepository) UserAnnotations(ctx context.Context, userID string, quoteIDs []int64) (map[int64]bool, map[int64]int, error) {
	liked := make(map[int64]bool, len(quoteIDs))
	ratings := make(map[int64]int, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return liked, ratings, nil
	}

	db := r.db.WithContext(ctx)

	var likedIDs []int64
	if err := db.Model(&models.QuoteLike{}).
		Where("user_id = ? AND quote_id IN ?", userID, quoteIDs).
		Pluck("quote_id", &likedIDs).Error; err != nil {
		return nil, nil, fmt.Errorf("lookup likes: %w", err)
	}
	for _, id := range likedIDs {
		liked[id] = true
	}

	var rows []models.QuoteRating
	if err := db.Select("quote_id", "rating").
		Where("user_id = ? AND quote_id IN ?", userID, quoteIDs).
		Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("lookup ratings: %w", err)
	}
	for _, row := range rows {
		ratings[row.QuoteID] = row.Rating
	}
	return liked, ratings, nil
}
