package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/playfriends/playfriends/internal/domain/auth"
	"github.com/playfriends/playfriends/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		corsMiddleware(nil),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.GET("/auth/google/url", handler.GoogleAuthURL)
		api.GET("/auth/google/callback", handler.GoogleCallback)

		api.GET("/categories", handler.ListCategories)
		api.GET("/categories/trending", handler.TrendingCategories)
		api.GET("/activities/:id", handler.GetActivity)
		api.GET("/activities/:id/photo-url", handler.ActivityPhotoURL)

		protected := api.Group("")
		protected.Use(authMiddleware(authSvc))
		{
			protected.GET("/users/me", handler.Me)
			protected.PUT("/users/me/preferences", handler.UpdatePreferences)
			protected.GET("/users/me/groups", handler.MyGroups)

			protected.POST("/groups", handler.CreateGroup)
			protected.GET("/groups", handler.ListGroups)
			protected.GET("/groups/:id", handler.GetGroup)
			protected.PUT("/groups/:id", handler.UpdateGroup)
			protected.DELETE("/groups/:id", handler.DeleteGroup)
			protected.POST("/groups/:id/join", handler.JoinGroup)
			protected.DELETE("/groups/:id/leave", handler.LeaveGroup)

			protected.POST("/groups/:id/recommendations/categories", handler.RecommendCategories)
			protected.POST("/groups/:id/schedules/preview", handler.PreviewSchedules)
			protected.POST("/groups/:id/schedules", handler.ConfirmSchedule)
			protected.GET("/groups/:id/schedule", handler.ConfirmedSchedule)

			protected.POST("/activities/:id/photo", handler.UploadActivityPhoto)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
