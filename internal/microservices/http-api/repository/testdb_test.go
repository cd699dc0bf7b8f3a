package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"quotehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the quote schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Quote{}, &models.QuoteLike{}, &models.QuoteRating{}))
	return db
}

var baseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Reader", Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedQuote inserts a quote whose created_at grows with its id.
func seedQuote(t *testing.T, db *gorm.DB, id int64, content, author string) *models.Quote {
	t.Helper()
	q := &models.Quote{
		ID:        id,
		Content:   content,
		Author:    author,
		CreatedAt: baseTime.Add(time.Duration(id) * time.Minute),
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func setAggregate(t *testing.T, db *gorm.DB, id int64, avg float64, total int) {
	t.Helper()
	require.NoError(t, db.Model(&models.Quote{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"average_rating": avg, "total_ratings": total}).Error)
}

var ctx = context.Background()
