package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "lingoplay:"

// Redis is a Cache shared by every server replica
type Redis struct {
	client *redis.Client
}

// NewRedis connects to addr and verifies the connection
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, redisNamespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error get struct in cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	if err := r.client.Set(ctx, redisNamespace+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	return nil
}

func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, redisNamespace+prefix+"*", 200).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached keys: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached keys: %w", err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached keys: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
