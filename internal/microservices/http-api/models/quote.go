package models

import "time"

// Quote rows are seeded externally, ids come from the upstream source and are never generated here.
// TotalLikes, TotalRatings and AverageRating mirror the quote_likes/quote_ratings rows and are only
// written inside the transactions that change those rows.
type Quote struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	Author        string    `json:"author" gorm:"not null"`
	TotalLikes    int       `json:"totalLikes" gorm:"column:total_likes;not null;default:0"`
	TotalRatings  int       `json:"totalRatings" gorm:"column:total_ratings;not null;default:0"`
	AverageRating float64   `json:"averageRating" gorm:"column:average_rating;type:decimal(3,2);not null;default:0"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (Quote) TableName() string {
	return "quotes"
}

// AnnotatedQuote is a quote as seen by one caller.
type AnnotatedQuote struct {
	Quote
	Liked      bool `json:"liked"`
	UserRating int  `json:"userRating"`
}
