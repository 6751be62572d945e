package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/lnkday/page-engine/internal/page"
)

// CachedStore decorates a Store with a Redis read-through cache on slug
// lookups, the hot path for visitor renders. Writes invalidate; every other
// operation passes straight through. Cache failures degrade to the backing
// store, never to an error.
type CachedStore struct {
	Store
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedStore(backing Store, redisURL string, ttl time.Duration) (*CachedStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CachedStore{Store: backing, redis: rdb, ttl: ttl}, nil
}

func cacheKey(slug string) string {
	return "page:" + slug
}

func (s *CachedStore) GetBySlug(ctx context.Context, slug string) (*page.Page, error) {
	cached, err := s.redis.Get(ctx, cacheKey(slug)).Result()
	if err == nil {
		var p page.Page
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
	}

	p, err := s.Store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.redis.Set(ctx, cacheKey(slug), data, s.ttl).Err(); err != nil {
			log.Printf("Warning: failed to cache page %s: %v", slug, err)
		}
	}

	return p, nil
}

func (s *CachedStore) Save(ctx context.Context, p *page.Page) error {
	if err := s.Store.Save(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, p.Slug)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, slug string) error {
	if err := s.Store.Delete(ctx, slug); err != nil {
		return err
	}
	s.invalidate(ctx, slug)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, slug string) {
	if err := s.redis.Del(ctx, cacheKey(slug)).Err(); err != nil {
		log.Printf("Warning: failed to invalidate cache for %s: %v", slug, err)
	}
}

func (s *CachedStore) Close() error {
	if err := s.redis.Close(); err != nil {
		log.Printf("Warning: failed to close redis client: %v", err)
	}
	return s.Store.Close()
}
