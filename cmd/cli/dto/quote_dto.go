package dto

import "time"

type RateQuoteRequest struct {
	Rating int `json:"rating"`
}

// QuoteResponse mirrors the server payload. Liked and UserRating are absent
// from like responses.
type QuoteResponse struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	TotalLikes    int       `json:"totalLikes"`
	TotalRatings  int       `json:"totalRatings"`
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
	Liked         *bool     `json:"liked,omitempty"`
	UserRating    *int      `json:"userRating,omitempty"`
}

type PaginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
}

type PaginatedQuotesResponse struct {
	Quotes     []QuoteResponse    `json:"quotes"`
	Pagination PaginationResponse `json:"pagination"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
