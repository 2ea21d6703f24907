// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bugtrack/internal/platform/constants"
)

// CachedRevocationStore puts a Redis read-through cache in front of a durable
// [RevocationStore].
//
// Only positive answers are cached: a revoked jti stays revoked until its token
// expires, so the entry lives exactly as long as the token could be presented.
// Redis failures are logged and the durable store answers instead.
type CachedRevocationStore struct {
	durable RevocationStore
	client  *redis.Client
	logger  *slog.Logger
	now     func() time.Time
}

// NewCachedRevocationStore wraps durable with the Redis client.
func NewCachedRevocationStore(durable RevocationStore, client *redis.Client, logger *slog.Logger) *CachedRevocationStore {
	return &CachedRevocationStore{durable: durable, client: client, logger: logger, now: time.Now}
}

func revokedKey(jti string) string {
	return constants.RedisPrefixRevoked + jti
}

/*
Record writes through to the durable store, then marks the cache.

Parameters:
  - context: context.Context
  - revocation: Revocation

Returns:
  - bool: The durable store's inserted flag
  - error: Durable store failures only
*/
func (store *CachedRevocationStore) Record(context context.Context, revocation Revocation) (bool, error) {
	inserted, err := store.durable.Record(context, revocation)
	if err != nil {
		return false, err
	}

	store.remember(context, revocation.JTI, revocation.ExpiresAt)
	return inserted, nil
}

// IsRevoked answers from Redis when possible, otherwise from the durable store.
func (store *CachedRevocationStore) IsRevoked(context context.Context, jti string) (bool, error) {
	err := store.client.Get(context, revokedKey(jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		// Not cached: the durable store decides.
	default:
		store.logger.WarnContext(context, "revocation_cache_read_failed", slog.Any("error", err))
	}

	return store.durable.IsRevoked(context, jti)
}

// DeleteExpired delegates to the durable store. Cache entries expire on their own.
func (store *CachedRevocationStore) DeleteExpired(context context.Context, before time.Time) (int64, error) {
	return store.durable.DeleteExpired(context, before)
}

// remember caches a revoked jti until expiresAt.
func (store *CachedRevocationStore) remember(context context.Context, jti string, expiresAt time.Time) {
	ttl := expiresAt.Sub(store.now())
	if ttl <= 0 {
		return
	}

	if err := store.client.Set(context, revokedKey(jti), "1", ttl).Err(); err != nil {
		store.logger.WarnContext(context, "revocation_cache_write_failed",
			slog.String("jti", jti),
			slog.Any("error", err),
		)
	}
}
