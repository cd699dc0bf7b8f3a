package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"quotehub/internal/microservices/http-api/dto"
	"quotehub/internal/microservices/http-api/middleware"
	"quotehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	svc    service.QuoteService
	logger *slog.Logger
}

func NewQuoteHandler(svc service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the quote routes. optional lets anonymous callers through,
// required rejects them.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup, optional, required gin.HandlerFunc) {
	rg.GET("/random", optional, h.Random)
	rg.GET("/search", optional, h.Search)
	rg.GET("/liked", required, h.Liked)
	rg.POST("/:id/like", required, h.Like)
	rg.POST("/:id/rate", required, h.Rate)
}

func (h *QuoteHandler) Random(c *gin.Context) {
	quote, err := h.svc.GetRandomQuote(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAnnotatedToQuoteResponse(quote))
}

func (h *QuoteHandler) Search(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	term := c.Query("q")
	if term == "" {
		term = c.Query("term")
	}

	result, err := h.svc.SearchQuotes(c.Request.Context(), term, middleware.UserID(c), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedQuotesResponse(result))
}

func (h *QuoteHandler) Liked(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}

	result, err := h.svc.GetLikedQuotes(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedQuotesResponse(result))
}

func (h *QuoteHandler) Like(c *gin.Context) {
	id, ok := quoteIDParam(c)
	if !ok {
		return
	}

	quote, err := h.svc.LikeQuote(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToQuoteResponse(quote))
}

func (h *QuoteHandler) Rate(c *gin.Context) {
	id, ok := quoteIDParam(c)
	if !ok {
		return
	}
	var req dto.RateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, dto.Describe(err))
		return
	}

	quote, err := h.svc.RateQuote(c.Request.Context(), middleware.UserID(c), id, req.Rating)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAnnotatedToQuoteResponse(quote))
}

func quoteIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "invalid quote id")
		return 0, false
	}
	return id, true
}

// pageParam defaults to 1; range checks are left to the service.
func pageParam(c *gin.Context) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "page must be an integer")
		return 0, false
	}
	return page, true
}
