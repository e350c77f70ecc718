package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// countingLimiter counts in process what the real limiter counts in redis.
type countingLimiter struct {
	counts  map[string]int64
	expires []string
	err     error
}

func newCountingLimiter() *countingLimiter {
	return &countingLimiter{counts: map[string]int64{}}
}

func (l *countingLimiter) Incr(_ context.Context, key string) *redis.IntCmd {
	if l.err != nil {
		return redis.NewIntResult(0, l.err)
	}
	l.counts[key]++
	return redis.NewIntResult(l.counts[key], nil)
}

func (l *countingLimiter) PExpire(_ context.Context, key string, _ time.Duration) *redis.BoolCmd {
	l.expires = append(l.expires, key)
	return redis.NewBoolResult(true, nil)
}

func newLimitedRouter(rdb RedisLimiter, max int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(rdb, "general", max, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func ping(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w
}

func TestRateLimitBlocksAboveBudget(t *testing.T) {
	rdb := newCountingLimiter()
	r := newLimitedRouter(rdb, 2)

	assert.Equal(t, http.StatusOK, ping(r).Code)
	assert.Equal(t, http.StatusOK, ping(r).Code)

	w := ping(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too many requests")
}

func TestRateLimitSetsWindowExpiryOnce(t *testing.T) {
	rdb := newCountingLimiter()
	r := newLimitedRouter(rdb, 10)

	ping(r)
	ping(r)
	ping(r)

	assert.Len(t, rdb.expires, 1, "expiry is set when the window key is created")
}

func TestRateLimitFailsOpenOnRedisError(t *testing.T) {
	rdb := newCountingLimiter()
	rdb.err = errors.New("connection refused")
	r := newLimitedRouter(rdb, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, ping(r).Code, "limiter outage must not block requests")
	}
}
