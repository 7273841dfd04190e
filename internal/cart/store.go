package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/movase/bookstore/internal/config"
	"github.com/movase/bookstore/internal/domain"
)

// Store persists one JSON item blob per cart key. A missing key is a
// valid empty cart.
type Store interface {
	Load(ctx context.Context, key string) ([]domain.CartItem, error)
	Save(ctx context.Context, key string, items []domain.CartItem) error
	Reset(ctx context.Context, key string) error
}

// cartTTL keeps abandoned carts from accumulating forever
const cartTTL = 30 * 24 * time.Hour

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a redis-backed cart store
func NewRedisStore(cfg config.RedisConfig) Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisStore{rdb: rdb}
}

// NewRedisStoreFromClient wraps an existing client, used by tests
func NewRedisStoreFromClient(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func storageKey(key string) string {
	return "movase-cart:" + key
}

func (s *redisStore) Load(ctx context.Context, key string) ([]domain.CartItem, error) {
	raw, err := s.rdb.Get(ctx, storageKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("corrupt cart payload: %w", err)
	}
	return items, nil
}

func (s *redisStore) Save(ctx context.Context, key string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.rdb.Set(ctx, storageKey(key), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *redisStore) Reset(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, storageKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset cart: %w", err)
	}
	return nil
}
