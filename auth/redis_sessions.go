// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisSessionPrefix = "session:"

// RedisSessions keeps sessions as Redis keys expiring with the session TTL
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

// RedisOptions accepts a redis:// or rediss:// URL, or a bare host:port
func RedisOptions(url string) (*redis.Options, error) {
	if url == "" {
		return &redis.Options{Addr: "localhost:6379"}, nil
	}
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: url}, nil
}

// ConnectRedis opens a client for url and verifies it with PING
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := RedisOptions(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *RedisSessions) Create(ctx context.Context, adminID int64) (Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return Session{}, err
	}

	if err := s.rdb.Set(ctx, redisSessionPrefix+token, adminID, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	return Session{Token: token, AdminID: adminID, ExpiresAt: time.Now().Add(s.ttl)}, nil
}

func (s *RedisSessions) Lookup(ctx context.Context, token string) (Session, error) {
	key := redisSessionPrefix + token
	adminID, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session ttl: %w", err)
	}

	return Session{Token: token, AdminID: adminID, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, redisSessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
