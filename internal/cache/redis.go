package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when Redis cannot be reached or a command fails
var ErrStoreUnavailable = errors.New("cooldown store unavailable")

// RedisClient wraps the Redis client with faucet-specific operations
type RedisClient struct {
	client               *redis.Client
	maxChallengesPerHour int // Max CAPTCHA questions per IP per hour, 0 disables
}

// NewRedisClient creates a new Redis client and checks the connection
func NewRedisClient(redisURL string, maxChallengesPerHour int) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:               client,
		maxChallengesPerHour: maxChallengesPerHour,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

func cooldownKey(key string) string {
	return fmt.Sprintf("faucet-cooldown:%s", key)
}

// Cooldown operations

// GetLastClaim returns the last successful claim time for a normalized address.
// found is false when no record exists or the stored value is not a timestamp.
func (r *RedisClient) GetLastClaim(ctx context.Context, key string) (at time.Time, found bool, err error) {
	value, err := r.client.Get(ctx, cooldownKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, key, err)
	}

	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// SetLastClaim records a claim time in ms since epoch; ttl should equal the cooldown period
func (r *RedisClient) SetLastClaim(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	if err := r.client.Set(ctx, cooldownKey(key), at.UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Challenge rate limiting

// CheckChallengeRateLimit checks if an IP has exceeded CAPTCHA question requests for the hour
func (r *RedisClient) CheckChallengeRateLimit(ctx context.Context, ip string) (bool, error) {
	if r.maxChallengesPerHour <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:challenge:hour:%s", ip)
	count, err := r.client.Get(ctx, key).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count < r.maxChallengesPerHour, nil
}

// IncrementChallengeRateLimit increments the challenge rate limit counter for an IP
func (r *RedisClient) IncrementChallengeRateLimit(ctx context.Context, ip string) error {
	if r.maxChallengesPerHour <= 0 {
		return nil
	}

	key := fmt.Sprintf("ratelimit:challenge:hour:%s", ip)
	pipe := r.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Health check

// Ping checks if Redis is responsive
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
