package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"presupuestos_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const articleKeyPrefix = "catalog:article:"

// LookupRecorder receives cache hit/miss observations.
type LookupRecorder interface {
	CatalogLookup(hit bool)
}

// CachedReader serves articles read-through from redis. Only existing
// articles are cached, so a newly inserted article is visible immediately.
// Clients are always read from the database.
type CachedReader struct {
	next    Reader
	rdb     *redis.Client
	ttl     time.Duration
	log     *logger.Logger
	metrics LookupRecorder
}

// NewCachedReader wraps next with a redis read-through cache for articles.
func NewCachedReader(next Reader, rdb *redis.Client, ttl time.Duration, log *logger.Logger, metrics LookupRecorder) *CachedReader {
	return &CachedReader{next: next, rdb: rdb, ttl: ttl, log: log, metrics: metrics}
}

// GetClient delegates to the wrapped reader.
func (c *CachedReader) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	return c.next.GetClient(ctx, id)
}

// GetArticle returns the cached article when present, otherwise loads and caches it.
// Redis failures degrade to a database read.
func (c *CachedReader) GetArticle(ctx context.Context, id string) (Article, error) {
	key := articleKeyPrefix + id

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var a Article
		if jsonErr := json.Unmarshal(raw, &a); jsonErr == nil {
			c.observe(true)
			return a, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Warn("catalog cache read failed", "key", key, "error", err)
	}

	c.observe(false)
	a, err := c.next.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}

	if payload, jsonErr := json.Marshal(a); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("catalog cache write failed", "key", key, "error", setErr)
		}
	}
	return a, nil
}

func (c *CachedReader) observe(hit bool) {
	if c.metrics != nil {
		c.metrics.CatalogLookup(hit)
	}
}
