// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"monet/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (availability reads, calendar busy windows).
	CacheClient *redis.Client
	// RateLimitCacheClient is the dedicated client for fixed-window rate counters.
	RateLimitCacheClient *redis.Client
)

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitRateLimitCache initializes the Redis client for rate-limit counters.
func InitRateLimitCache() {
	RateLimitCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRateLimitDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := RateLimitCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (RateLimit): %v", err)
	}
}

// GetRateLimitCacheClient returns the Redis client for rate-limit counters.
func GetRateLimitCacheClient() *redis.Client {
	if RateLimitCacheClient == nil {
		InitRateLimitCache()
	}
	return RateLimitCacheClient
}

// InitRedis initializes all Redis clients eagerly at startup.
func InitRedis() {
	InitCache()
	InitRateLimitCache()
}
