package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps chat state in redis as JSON values with a sliding TTL.
// The rate counter is an INCR key that expires with its window.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "majormatch:chat"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(kind, userID string) string {
	return s.prefix + ":" + kind + ":" + userID
}

func (s *RedisStore) LoadProfile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	_, err := s.getJSON(ctx, s.key("profile", userID), &p)
	return p, err
}

func (s *RedisStore) SaveProfile(ctx context.Context, userID string, p Profile) error {
	return s.setJSON(ctx, s.key("profile", userID), p)
}

func (s *RedisStore) LoadContext(ctx context.Context, userID string) (Context, bool, error) {
	c := newContext()
	ok, err := s.getJSON(ctx, s.key("context", userID), &c)
	return c, ok, err
}

func (s *RedisStore) SaveContext(ctx context.Context, userID string, c Context) error {
	return s.setJSON(ctx, s.key("context", userID), c)
}

func (s *RedisStore) CountMessage(ctx context.Context, userID string, window time.Duration) (RateWindow, error) {
	key := s.key("rate", userID)
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return RateWindow{}, fmt.Errorf("rate incr: %w", err)
	}
	if n == 1 {
		if err := s.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return RateWindow{}, fmt.Errorf("rate expire: %w", err)
		}
	}
	ttl, err := s.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return RateWindow{}, fmt.Errorf("rate ttl: %w", err)
	}
	if ttl < 0 {
		// counter outlived its expiry (e.g. a failed PEXPIRE); restart the window
		if err := s.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return RateWindow{}, fmt.Errorf("rate expire: %w", err)
		}
		ttl = window
	}
	return RateWindow{Count: n, ResetAt: time.Now().Add(ttl)}, nil
}

func (s *RedisStore) getJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
