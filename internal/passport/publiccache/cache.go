// Package publiccache caches public passport views in redis. The public
// page is the hot read path (every QR scan hits it), so lookups by public
// id go through here before the store. The cache is optional: a nil *Cache
// is a valid no-op instance for deployments without redis.
package publiccache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"passreg/internal/passport/models"
	"passreg/internal/platform/redis"
	id "passreg/pkg/domain"
)

// Cache stores serialized passport records keyed by public id.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New returns a cache over the given client, or nil when the client is nil.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func key(publicID id.PublicID) string {
	return "passreg:public:" + publicID.String()
}

// Get returns the cached record for a public id, or (nil, false) on miss.
// Redis failures count as misses; the store remains the source of truth.
func (c *Cache) Get(ctx context.Context, publicID id.PublicID) (*models.Person, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key(publicID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WarnContext(ctx, "public cache read failed", "public_id", publicID.String(), "error", err)
		}
		return nil, false
	}
	var person models.Person
	if err := json.Unmarshal(raw, &person); err != nil {
		c.logger.WarnContext(ctx, "public cache entry corrupt", "public_id", publicID.String(), "error", err)
		return nil, false
	}
	return &person, true
}

// Set stores a record under its public id, best-effort.
func (c *Cache) Set(ctx context.Context, person *models.Person) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(person)
	if err != nil {
		c.logger.WarnContext(ctx, "public cache marshal failed", "public_id", person.PublicID.String(), "error", err)
		return
	}
	if err := c.client.Set(ctx, key(person.PublicID), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "public cache write failed", "public_id", person.PublicID.String(), "error", err)
	}
}

// Invalidate drops the cached view after a mutation, best-effort.
func (c *Cache) Invalidate(ctx context.Context, publicID id.PublicID) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(publicID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "public cache invalidation failed", "public_id", publicID.String(), "error", err)
	}
}
