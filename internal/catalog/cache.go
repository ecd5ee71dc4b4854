package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListingCache caches listing pages in Redis. Cache keys embed a
// per-tenant version counter, so invalidation after a mutation is a
// single INCR; stale entries age out via TTL instead of being swept.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) (*ListingCache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ListingCache{client: client, ttl: ttl}, nil
}

func (c *ListingCache) Get(ctx context.Context, q ListQuery) (Page, bool) {
	key, err := c.key(ctx, q)
	if err != nil {
		return Page{}, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return Page{}, false
	}
	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return Page{}, false
	}
	return page, true
}

func (c *ListingCache) Set(ctx context.Context, q ListQuery, page Page) {
	key, err := c.key(ctx, q)
	if err != nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	// Best-effort; a failed SET only costs a future cache miss.
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate bumps the tenant's version counter so every cached page
// for that tenant stops being addressable. The cross-tenant public
// listing shares one version under "_all" and is bumped too.
func (c *ListingCache) Invalidate(ctx context.Context, tenantID string) {
	_ = c.client.Incr(ctx, versionKey(tenantID)).Err()
	_ = c.client.Incr(ctx, versionKey("")).Err()
}

func (c *ListingCache) key(ctx context.Context, q ListQuery) (string, error) {
	version, err := c.client.Get(ctx, versionKey(q.TenantID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("catalog:list:%s:%d:%s", q.TenantID, version, hex.EncodeToString(sum[:16])), nil
}

func versionKey(tenantID string) string {
	if tenantID == "" {
		tenantID = "_all"
	}
	return "catalog:list_version:" + tenantID
}
