// Package fdc talks to the USDA FoodData Central search API.
package fdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"mspro-labs/fdc-seed/internal/models"
)

// SearchFailedError wraps any transport, status or decode failure for one query.
type SearchFailedError struct {
	Query string
	Err   error
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("search failed for %q: %v", e.Query, e.Err)
}

func (e *SearchFailedError) Unwrap() error { return e.Err }

// Searcher returns the raw candidates for one query.
type Searcher interface {
	SearchFoods(ctx context.Context, query string, dataTypes []string, pageSize int) ([]models.RawCandidate, error)
}

type searchRequest struct {
	Query      string   `json:"query"`
	PageSize   int      `json:"pageSize"`
	PageNumber int      `json:"pageNumber"`
	DataType   []string `json:"dataType"`
}

// Client issues foods/search calls. Every network call waits on the limiter.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client spacing calls at least interval apart.
func NewClient(apiKey, baseURL string, timeout, interval time.Duration) *Client {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// SearchFoods performs one search and decodes the candidate list.
func (c *Client) SearchFoods(ctx context.Context, query string, dataTypes []string, pageSize int) ([]models.RawCandidate, error) {
	body, err := c.searchRaw(ctx, query, dataTypes, pageSize)
	if err != nil {
		return nil, err
	}
	foods, err := DecodeSearch(body)
	if err != nil {
		return nil, &SearchFailedError{Query: query, Err: err}
	}
	return foods, nil
}

// searchRaw returns the undecoded response body of a successful call.
func (c *Client) searchRaw(ctx context.Context, query string, dataTypes []string, pageSize int) ([]byte, error) {
	fail := func(err error) ([]byte, error) {
		return nil, &SearchFailedError{Query: query, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(err)
	}

	reqURL, err := url.Parse(c.baseURL + "/foods/search")
	if err != nil {
		return fail(fmt.Errorf("failed to parse base URL: %w", err))
	}
	params := reqURL.Query()
	params.Set("api_key", c.apiKey)
	reqURL.RawQuery = params.Encode()

	payload, err := json.Marshal(searchRequest{
		Query:      query,
		PageSize:   pageSize,
		PageNumber: 1,
		DataType:   dataTypes,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("failed to make request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}
	return body, nil
}

// DecodeSearch parses a foods/search response body. A missing or null
// foods list decodes to an empty slice.
func DecodeSearch(body []byte) ([]models.RawCandidate, error) {
	var resp models.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Foods == nil {
		return []models.RawCandidate{}, nil
	}
	return resp.Foods, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
