package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"compliancedocs/internal/config"
	"compliancedocs/internal/model"
)

// NewRedisClient creates a go-redis client from configuration.
// Returns nil if the URL is empty (cache not configured).
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisSnapshot keeps snapshots as JSON strings with a TTL.
type RedisSnapshot struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ Snapshot = (*RedisSnapshot)(nil)

// NewRedisSnapshot constructs a Redis-backed snapshot store. A zero ttl keeps entries forever.
func NewRedisSnapshot(client redis.Cmdable, ttl time.Duration) *RedisSnapshot {
	return &RedisSnapshot{client: client, ttl: ttl}
}

func (s *RedisSnapshot) SaveOverview(ctx context.Context, ov model.Overview) error {
	return s.set(ctx, overviewKey(ov.SubjectID), ov)
}

func (s *RedisSnapshot) LoadOverview(ctx context.Context, subjectID string) (*model.Overview, error) {
	var ov model.Overview
	if err := s.get(ctx, overviewKey(subjectID), &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

func (s *RedisSnapshot) SaveCatalog(ctx context.Context, kind model.SubjectKind, types []model.DocumentType) error {
	return s.set(ctx, catalogKey(kind), types)
}

func (s *RedisSnapshot) LoadCatalog(ctx context.Context, kind model.SubjectKind) ([]model.DocumentType, error) {
	var types []model.DocumentType
	if err := s.get(ctx, catalogKey(kind), &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (s *RedisSnapshot) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSnapshot) get(ctx context.Context, key string, v any) error {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return nil
}
