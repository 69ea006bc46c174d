package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Valkey connection settings.
type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// ValkeyClient caches hot listing responses as raw JSON so cache hits
// skip the unmarshal/marshal round trip entirely.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &ValkeyClient{client: rdb, ttl: ttl}, nil
}

// GetRaw returns the cached JSON for a key, or redis.Nil when absent.
func (v *ValkeyClient) GetRaw(ctx context.Context, key string) ([]byte, error) {
	data, err := v.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetRaw marshals value and stores it under key with the configured TTL.
func (v *ValkeyClient) SetRaw(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return v.client.Set(ctx, key, data, v.ttl).Err()
}

// Invalidate removes cached keys, typically after an admin write.
func (v *ValkeyClient) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return v.client.Del(ctx, keys...).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
