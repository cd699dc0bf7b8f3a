package models

import "time"

// QuoteLike exists while the user likes the quote; unliking deletes the row.
type QuoteLike struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_quote_likes_user_quote"`
	QuoteID   int64     `json:"quoteId" gorm:"not null;uniqueIndex:idx_quote_likes_user_quote;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// Associations
	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Quote Quote `json:"-" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE;"`
}

func (QuoteLike) TableName() string {
	return "quote_likes"
}
