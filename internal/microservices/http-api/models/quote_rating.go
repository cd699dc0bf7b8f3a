package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// QuoteRating holds at most one rating per (user, quote); re-rating overwrites Rating.
type QuoteRating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_quote_ratings_user_quote"`
	QuoteID   int64     `json:"quoteId" gorm:"not null;uniqueIndex:idx_quote_ratings_user_quote;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Quote Quote `json:"-" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE;"`
}

func (QuoteRating) TableName() string {
	return "quote_ratings"
}
