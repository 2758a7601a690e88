package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BanCache stores ban markers so the ban-gate can reject an already-issued
// access token without a database round trip. The database stays the
// source of truth; a cache miss falls back to the profiles table.
type BanCache interface {
	MarkBanned(ctx context.Context, userID uuid.UUID, reason string) error
	ClearBan(ctx context.Context, userID uuid.UUID) error
	// BanReason returns the stored reason and whether a marker exists.
	BanReason(ctx context.Context, userID uuid.UUID) (string, bool, error)
}

// RedisBanCache implements BanCache on go-redis. Markers have no TTL; they
// are cleared only by an explicit unban.
type RedisBanCache struct {
	rdb *redis.Client
}

func NewRedisBanCache(rdb *redis.Client) *RedisBanCache {
	return &RedisBanCache{rdb: rdb}
}

func banKey(userID uuid.UUID) string {
	return "ban:" + userID.String()
}

func (c *RedisBanCache) MarkBanned(ctx context.Context, userID uuid.UUID, reason string) error {
	return c.rdb.Set(ctx, banKey(userID), reason, 0).Err()
}

func (c *RedisBanCache) ClearBan(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, banKey(userID)).Err()
}

func (c *RedisBanCache) BanReason(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	val, err := c.rdb.Get(ctx, banKey(userID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
