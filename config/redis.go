package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds a Redis client from cfg. It returns (nil, nil) when
// Redis is disabled or the application runs under APPENV=test.
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	if cfg == nil || !cfg.RedisEnabled || cfg.IsTest() {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Printf("Connected to Redis at %s", cfg.RedisAddr)
	return rdb, nil
}
