package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger returns a Gin middleware that logs each request using zap. The
// authenticated username is attached when a token was presented. Public
// report listings are polled constantly by clients, so they log at debug;
// server errors log at error.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if user := CurrentUsername(c); user != "" {
			fields = append(fields, zap.String("user", user))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case isPublicListing(c.Request.Method, path):
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func isPublicListing(method, path string) bool {
	return method == http.MethodGet && (path == "/works" || path == "/profiles")
}
