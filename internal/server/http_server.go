package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/config"
	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/utils/respond"
)

// NewRouter builds the gin engine: recovery + request ids + request logs,
// a health probe, and the authenticated /api group that all registrars
// mount onto.
func NewRouter(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(requestLogger(appCtx))

	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "ok"})
	})

	userRepo := repository.NewUserRepository(appCtx.DB)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(cfg.Auth.JWTSecret))
	api.Use(middleware.ResolveUser(userRepo))

	for _, reg := range registrars {
		reg.Register(api)
	}

	return r
}

// StartHTTPServer boots the HTTP server on the configured port.
func StartHTTPServer(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) error {
	r := NewRouter(cfg, appCtx, registrars...)
	return r.Run(":" + cfg.App.Port)
}

func requestLogger(appCtx *app.AppContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		appCtx.Logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetRequestID(c),
		)
	}
}
