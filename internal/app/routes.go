package app

import (
	"time"

	"github.com/gin-gonic/gin"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Decaded/MSGA-server/internal/config"
	"github.com/Decaded/MSGA-server/internal/middleware"
	"github.com/Decaded/MSGA-server/internal/modules/auth"
	"github.com/Decaded/MSGA-server/internal/modules/backup"
	"github.com/Decaded/MSGA-server/internal/modules/report"
	"github.com/Decaded/MSGA-server/internal/modules/user"
	"github.com/Decaded/MSGA-server/internal/modules/webhook"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/Decaded/MSGA-server/internal/store"
)

const (
	appName    = "msga-server"
	appVersion = "1.0.0"

	authRateLimit    = 5
	generalRateLimit = 60
	rateLimitWindow  = time.Minute
)

// buildRouter wires middleware and all module routes. rdb may be nil (tests),
// in which case rate limiting is skipped.
func buildRouter(logger *zap.Logger, cfg *config.AppConfig, st store.Backend, rdb *redislib.Client) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(corsMiddleware(cfg))

	r.NoRoute(func(c *gin.Context) { response.NotFound(c, "route not found") })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	passthrough := func(c *gin.Context) { c.Next() }
	authLimiter, generalLimiter := passthrough, passthrough
	if rdb != nil {
		authLimiter = middleware.RateLimit(rdb, "auth", authRateLimit, rateLimitWindow)
		generalLimiter = middleware.RateLimit(rdb, "general", generalRateLimit, rateLimitWindow)
	}

	authMW := middleware.Auth(st)
	optionalAuthMW := middleware.OptionalAuth(st)
	adminMW := middleware.AdminOnly()

	api := r.Group("/", generalLimiter)

	api.GET("/version", func(c *gin.Context) {
		response.OK(c, gin.H{"name": appName, "version": appVersion})
	})

	authSvc := auth.NewService(st, cfg.TokenTTL())
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW, authLimiter)

	user.NewHandler(user.NewService(st)).RegisterRoutes(api, authMW, adminMW)

	webhookSvc := webhook.NewService(st, logger)
	webhook.NewHandler(webhookSvc).RegisterRoutes(api, authMW, adminMW)

	worksSvc := report.NewService(st, report.Works, webhookSvc, logger)
	report.NewHandler(worksSvc).RegisterRoutes(api, authMW, optionalAuthMW, adminMW)

	profilesSvc := report.NewService(st, report.Profiles, webhookSvc, logger)
	report.NewHandler(profilesSvc).RegisterRoutes(api, authMW, optionalAuthMW, adminMW)

	backupSvc := backup.NewService(st, cfg.Backup, logger)
	backup.NewHandler(backupSvc).RegisterRoutes(api, authMW, adminMW)

	return r
}
