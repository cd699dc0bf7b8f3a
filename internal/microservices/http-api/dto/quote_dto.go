package dto

import (
	"time"

	"quotehub/internal/microservices/http-api/models"
	"quotehub/internal/microservices/http-api/service"
)

// RateQuoteRequest for submitting or replacing the caller's rating
type RateQuoteRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// QuoteResponse carries liked/userRating only when the quote was annotated for a caller.
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

// FromModelToQuoteResponse converts a bare quote (counters only).
func FromModelToQuoteResponse(q *models.Quote) QuoteResponse {
	return QuoteResponse{
		ID:            q.ID,
		Content:       q.Content,
		Author:        q.Author,
		TotalLikes:    q.TotalLikes,
		TotalRatings:  q.TotalRatings,
		AverageRating: q.AverageRating,
		CreatedAt:     q.CreatedAt,
	}
}

func FromAnnotatedToQuoteResponse(q *models.AnnotatedQuote) QuoteResponse {
	resp := FromModelToQuoteResponse(&q.Quote)
	liked, rating := q.Liked, q.UserRating
	resp.Liked = &liked
	resp.UserRating = &rating
	return resp
}

func NewPaginatedQuotesResponse(page *service.PaginatedQuotes) PaginatedQuotesResponse {
	quotes := make([]QuoteResponse, len(page.Quotes))
	for i := range page.Quotes {
		quotes[i] = FromAnnotatedToQuoteResponse(&page.Quotes[i])
	}
	return PaginatedQuotesResponse{
		Quotes: quotes,
		Pagination: PaginationResponse{
			CurrentPage: page.Pagination.CurrentPage,
			TotalPages:  page.Pagination.TotalPages,
			TotalCount:  page.Pagination.TotalCount,
		},
	}
}
