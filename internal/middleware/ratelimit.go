package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/utils"
)

// rateCounter is the fixed-window counter backing the limiter. Backed by
// redis in production; tests substitute a fake.
type rateCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type redisCounter struct {
	client *redis.Client
}

func (c redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// RateLimitMiddleware enforces a fixed-window per-user cap on session
// creation. When the counter is unavailable the request is allowed through
// so the limiter never becomes an outage.
type RateLimitMiddleware struct {
	log     *logger.Logger
	counter rateCounter
	limit   int
	window  time.Duration
}

func NewRateLimitMiddleware(baseLog *logger.Logger, client *redis.Client) *RateLimitMiddleware {
	log := baseLog.With("middleware", "RateLimitMiddleware")
	limit := utils.GetEnvAsInt("RATE_LIMIT_PER_HOUR", 10, baseLog)
	var counter rateCounter
	if client != nil {
		counter = redisCounter{client: client}
	}
	return &RateLimitMiddleware{
		log:     log,
		counter: counter,
		limit:   limit,
		window:  time.Hour,
	}
}

func (rl *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil {
			c.Next()
			return
		}
		userID, ok := UserIDFromContext(c)
		if !ok {
			c.Next()
			return
		}
		key := fmt.Sprintf("ratelimit:sessions:%s:%d", userID, time.Now().Unix()/int64(rl.window.Seconds()))
		ctx := c.Request.Context()
		count, err := rl.counter.Incr(ctx, key)
		if err != nil {
			rl.log.Warn("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.counter.Expire(ctx, key, rl.window); err != nil {
				rl.log.Warn("Failed to set rate limit key expiry", "error", err)
			}
		}
		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, try again later",
			})
			return
		}
		c.Next()
	}
}

// NewRedisClient builds the limiter's redis client from REDIS_URL. A missing
// or malformed URL disables rate limiting rather than failing startup.
func NewRedisClient(baseLog *logger.Logger) *redis.Client {
	log := baseLog.With("service", "RedisClient")
	url := utils.GetEnv("REDIS_URL", "", baseLog)
	if url == "" {
		log.Warn("REDIS_URL not set, rate limiting disabled")
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Invalid REDIS_URL, rate limiting disabled", "error", err)
		return nil
	}
	return redis.NewClient(opts)
}
