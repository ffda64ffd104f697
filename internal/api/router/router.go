package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stageflow/config"
	"stageflow/internal/api/handler"
	"stageflow/internal/api/middleware"
	"stageflow/pkg/jwt"
	"stageflow/pkg/redis"
)

// Setup builds the Gin engine and wires all routes.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth module (no token required)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
			auth.POST("/verify-code", h.Auth.VerifyCode)
			auth.POST("/reset-password", h.Auth.ResetPassword)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// record module. Mutations take any authenticated identity
			// unless feature.enforce_admin_mutations is on; the service
			// applies that policy, not the router.
			records := authorized.Group("/records")
			{
				records.GET("", h.Record.List)
				records.POST("", h.Record.Create)
				records.PUT("/:position", h.Record.Update)
				records.DELETE("/:position", h.Record.Delete)
			}

			// export module
			export := authorized.Group("/export")
			{
				export.POST("/pdf", h.Export.ExportPDF)
				export.POST("/csv", h.Export.ExportCSV)
				export.POST("/xlsx", h.Export.ExportXLSX)
				export.POST("/ics", h.Export.ExportICS)
			}
		}
	}

	return r
}
