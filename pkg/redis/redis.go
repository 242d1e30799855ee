package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance, or nil when Redis is not configured.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection.
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// RevokeToken adds an access token to the revocation list until it expires.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	key := fmt.Sprintf("revoked:%s", token)
	if err := client.Set(ctx, key, "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err, nil)
		return err
	}
	return nil
}

// IsTokenRevoked reports whether an access token has been revoked.
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}
	key := fmt.Sprintf("revoked:%s", token)
	_, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err, nil)
		return false, err
	}
	return true, nil
}

// CountVisit increments the visit counter for the given day and returns the
// new total. Counters expire after 90 days.
func CountVisit(ctx context.Context, day time.Time) (int64, error) {
	if client == nil {
		return 0, nil
	}
	key := fmt.Sprintf("visits:%s", day.Format("2006-01-02"))
	total, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	client.Expire(ctx, key, 90*24*time.Hour)
	return total, nil
}

// VisitCount returns the visit counter for the given day.
func VisitCount(ctx context.Context, day time.Time) (int64, error) {
	if client == nil {
		return 0, nil
	}
	key := fmt.Sprintf("visits:%s", day.Format("2006-01-02"))
	total, err := client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return total, err
}
