package client

// http_client.go = REST client used by the quotehub CLI commands.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quotehub/cmd/cli/dto"
)

// ErrUnauthorized is returned for 401 responses so commands can suggest logging in.
var ErrUnauthorized = errors.New("not authenticated, run `quotehub auth login` first")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded with %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RandomQuote(ctx context.Context) (*dto.QuoteResponse, error) {
	var result dto.QuoteResponse
	if err := c.do(ctx, http.MethodGet, "/api/quotes/random", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeQuote toggles the caller's like on a quote.
func (c *HTTPClient) LikeQuote(ctx context.Context, quoteID int64) (*dto.QuoteResponse, error) {
	var result dto.QuoteResponse
	path := fmt.Sprintf("/api/quotes/%d/like", quoteID)
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RateQuote(ctx context.Context, quoteID int64, rating int) (*dto.QuoteResponse, error) {
	var result dto.QuoteResponse
	path := fmt.Sprintf("/api/quotes/%d/rate", quoteID)
	if err := c.do(ctx, http.MethodPost, path, &dto.RateQuoteRequest{Rating: rating}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SearchQuotes(ctx context.Context, term string, page int) (*dto.PaginatedQuotesResponse, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("page", strconv.Itoa(page))

	var result dto.PaginatedQuotesResponse
	if err := c.do(ctx, http.MethodGet, "/api/quotes/search?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) LikedQuotes(ctx context.Context, page int) (*dto.PaginatedQuotesResponse, error) {
	var result dto.PaginatedQuotesResponse
	path := "/api/quotes/liked?page=" + strconv.Itoa(page)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends one JSON request and decodes the response into out. Error bodies of the
// form {"error": "..."} become *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
