// Package cache keeps rendered profiles in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const ProfileKeyPrefix = "profile:%s"

func ProfileKey(userID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

// ProfileCache is a cache-aside store for profile responses. With a nil
// client every lookup misses and writes are dropped.
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl, log: log}
}

// Get returns the cached profile of userID, if any. Redis errors count as a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*models.UserResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, ProfileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).Warn("profile cache read failed")
		return nil, false
	}
	var profile models.UserResponse
	if err := json.Unmarshal(b, &profile); err != nil {
		c.log.WithError(err).Warn("profile cache entry is corrupt")
		return nil, false
	}
	return &profile, true
}

// Set stores profile under its user id.
func (c *ProfileCache) Set(ctx context.Context, profile models.UserResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	b, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, ProfileKey(profile.ID), b, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("profile cache write failed")
	}
}

// Invalidate drops the cached profile of userID.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, ProfileKey(userID)).Err(); err != nil {
		c.log.WithError(err).Warn("profile cache invalidation failed")
	}
}
