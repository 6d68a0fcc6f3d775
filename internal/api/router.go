package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/auth"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry)

	// Handlers
	authHandler := NewAuthHandler(services, log)
	userHandler := NewUserHandler(services, log)
	lineHandler := NewLineHandler(services, log)
	productHandler := NewProductHandler(services, log)
	yearDataHandler := NewYearDataHandler(services, log)
	settingsHandler := NewSettingsHandler(services, log)
	backupHandler := NewBackupHandler(services, log)
	uploadHandler := NewUploadHandler(&cfg.Upload, log)
	chatHandler := NewChatHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// Uploaded images are served straight from disk.
	router.Static("/uploads", cfg.Upload.Dir)

	// API v1
	v1 := router.Group("/v1")
	v1.POST("/auth/login", authHandler.Login)

	// Everything else requires a valid session token.
	authed := v1.Group("", requireAuth(tokens))
	{
		authed.POST("/auth/change-password", authHandler.ChangePassword)

		authed.GET("/lines", lineHandler.List)

		authed.GET("/products", productHandler.List)
		authed.GET("/products/:id", productHandler.Get)
		authed.POST("/products", productHandler.Create)
		authed.PUT("/products/:id", productHandler.Update)
		authed.DELETE("/products/:id", productHandler.Delete)

		authed.PUT("/year-data", yearDataHandler.Upsert)
		authed.DELETE("/year-data", yearDataHandler.Delete)

		authed.GET("/settings", settingsHandler.Get)

		authed.POST("/chat", chatHandler.Chat)
	}

	// Admin-only surface.
	admin := v1.Group("", requireAuth(tokens), requireAdmin())
	{
		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)
		admin.GET("/users/:id/lines", userHandler.GetLineAssignments)
		admin.PUT("/users/:id/lines", userHandler.SetLineAssignments)

		admin.POST("/lines", lineHandler.Create)
		admin.PUT("/lines/:id", lineHandler.Update)
		admin.DELETE("/lines/:id", lineHandler.Delete)

		admin.PUT("/settings", settingsHandler.Update)

		admin.GET("/backup/export", backupHandler.Export)
		admin.POST("/backup/import", backupHandler.Import)
		admin.POST("/backup/import-excel", backupHandler.ImportExcel)

		admin.POST("/uploads", uploadHandler.Upload)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "sps-dashboard-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
