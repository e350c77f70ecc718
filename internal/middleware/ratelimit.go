package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the subset of redis commands the limiter needs. Satisfied
// by *redis.Client; tests substitute a stub.
type RedisLimiter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit returns a fixed-window per-IP limiter. Auth routes get their own
// scope with a tighter budget than the general API. Redis errors fail open so
// a limiter outage never takes down the API itself.
func RateLimit(rdb RedisLimiter, scope string, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("msga:rate_limit:%s:%s:%d", scope, ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, window+time.Second)
		}

		if count > max {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, apperr.New(apperr.KindRateLimit, "too many requests, slow down"))
			return
		}

		c.Next()
	}
}
