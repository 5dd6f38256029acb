package fdc

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"mspro-labs/fdc-seed/internal/db"
	"mspro-labs/fdc-seed/internal/logger"
	"mspro-labs/fdc-seed/internal/models"
)

// CachedClient serves searches from the local cache before hitting the API.
// Cache errors never fail a search.
type CachedClient struct {
	client   *Client
	database *sql.DB
}

// NewCachedClient wraps client with a search cache stored in database.
func NewCachedClient(client *Client, database *sql.DB) *CachedClient {
	return &CachedClient{client: client, database: database}
}

// SearchFoods implements Searcher.
func (c *CachedClient) SearchFoods(ctx context.Context, query string, dataTypes []string, pageSize int) ([]models.RawCandidate, error) {
	key := db.CacheKey(query, dataTypes, pageSize)

	blob, err := db.GetCachedSearch(c.database, key)
	switch {
	case err == nil:
		if foods, decodeErr := DecodeSearch(blob); decodeErr == nil {
			logger.Get().Debug("cache hit", zap.String("query", query))
			return foods, nil
		}
		logger.Get().Warn("ignoring unreadable cache entry", zap.String("query", query))
	case !errors.Is(err, sql.ErrNoRows):
		logger.Get().Warn("cache lookup failed", zap.String("query", query), zap.Error(err))
	}

	body, err := c.client.searchRaw(ctx, query, dataTypes, pageSize)
	if err != nil {
		return nil, err
	}
	foods, err := DecodeSearch(body)
	if err != nil {
		return nil, &SearchFailedError{Query: query, Err: err}
	}

	if err := db.SaveCachedSearch(c.database, key, query, body); err != nil {
		logger.Get().Warn("failed to save search to cache", zap.String("query", query), zap.Error(err))
	}
	return foods, nil
}
