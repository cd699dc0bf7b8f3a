package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quotehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "userID"
	ContextKeyClaims = "claims"
)

var errInvalidAuthHeader = errors.New("invalid authorization header format")

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrAuthRequired.Error()})
			return
		}
		if !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through. A header that is present
// but does not carry a valid token is still rejected.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, authHeader string) bool {
	claims, err := ClaimsFromHeader(c.Request.Context(), validator, authHeader)
	if errors.Is(err, errInvalidAuthHeader) || errors.Is(err, service.ErrInvalidToken) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return false
	}
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
		return false
	}

	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyUserID, claims.ID)
	return true
}

// ClaimsFromHeader parses an "Authorization: Bearer <token>" value. Any rejection of
// the token itself comes back as service.ErrInvalidToken; store failures pass through.
func ClaimsFromHeader(ctx context.Context, validator TokenValidator, authHeader string) (*service.Claims, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, errInvalidAuthHeader
	}

	claims, err := validator.ValidateToken(ctx, strings.TrimSpace(token))
	if errors.Is(err, service.ErrInvalidToken) {
		return nil, service.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UserID returns the authenticated caller's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
