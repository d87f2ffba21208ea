package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"books-api/internal/shared/apperror"
	"books-api/internal/shared/middleware"
	"books-api/internal/shared/response"
	"books-api/pkg/container"
)

const healthTimeout = 2 * time.Second

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	if err := router.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		log.Warn().Err(err).Msg("invalid TRUSTED_PROXIES, trusting no proxy")
		_ = router.SetTrustedProxies(nil)
	}

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupUserRoutes(api, c)
		setupAuthorRoutes(api, c)
		setupBookRoutes(api, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, apperror.NotFound("route not found"))
	})

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.Authenticate(c.JWTManager)

	users := api.Group("/users")
	{
		users.POST("/register", c.UserHandler.Register)
		users.POST("/login", c.UserHandler.Login)

		self := users.Group("", auth, middleware.RequireSelfOrAdmin("id"))
		self.GET("/profile/:id", c.UserHandler.GetProfile)
		self.PUT("/profile/:id", c.UserHandler.UpdateProfile)
		self.DELETE("/:id", c.UserHandler.Delete)

		admin := users.Group("", auth, middleware.AdminMiddleware())
		admin.GET("/all", c.UserHandler.List)
		admin.GET("/email/:email", c.UserHandler.GetByEmail)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container) {
	authors := api.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.GET("/:id/books", c.BookHandler.AuthorBooks)

		admin := authors.Group("", middleware.Authenticate(c.JWTManager), middleware.AdminMiddleware())
		admin.POST("", c.AuthorHandler.Create)
		admin.PATCH("/:id", c.AuthorHandler.Update)
		admin.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)
		books.GET("/author/:authorId", c.BookHandler.ListByAuthor)

		admin := books.Group("", middleware.Authenticate(c.JWTManager), middleware.AdminMiddleware())
		admin.POST("", c.BookHandler.Create)
		admin.PATCH("/:id", c.BookHandler.Update)
		admin.DELETE("/:id", c.BookHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK
// ========================================

// healthCheckHandler reports postgres and redis status. Only a database
// failure makes the service unhealthy; redis is an optional cache.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
			}
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disabled"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()

			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
