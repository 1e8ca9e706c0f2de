package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pubs-backend/internal/shared/middleware"
	"pubs-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Actor(),
		middleware.Logger(),
		middleware.Recovery(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthorRoutes(v1, c)
		setupPublisherRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupStoreRoutes(v1, c)
		setupSaleRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	{
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.PUT("/:id", c.AuthorHandler.Update)
		authors.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

// ========================================
// PUBLISHER ROUTES
// ========================================
func setupPublisherRoutes(v1 *gin.RouterGroup, c *container.Container) {
	publishers := v1.Group("/publishers")
	{
		publishers.POST("", c.PublisherHandler.CreatePublisher)
		publishers.GET("", c.PublisherHandler.ListPublishers)
		publishers.GET("/:id", c.PublisherHandler.GetPublisher)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.POST("", c.BookHandler.Create)
		books.GET("/search", c.BookHandler.Search)
		books.GET("/isbn/:isbn", c.BookHandler.GetByISBN)
	}
}

// ========================================
// STORE ROUTES
// ========================================
func setupStoreRoutes(v1 *gin.RouterGroup, c *container.Container) {
	stores := v1.Group("/stores")
	{
		stores.POST("", c.StoreHandler.Create)
		stores.GET("", c.StoreHandler.List)
		stores.GET("/:id", c.StoreHandler.GetByID)
		stores.GET("/:id/sales", c.SaleHandler.ListByStore)
	}
}

// ========================================
// SALE ROUTES
// ========================================
func setupSaleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sales := v1.Group("/sales")
	{
		sales.POST("", c.SaleHandler.PlaceSale)
		sales.GET("/:id", c.SaleHandler.GetByID)
		sales.PATCH("/:id/status", c.SaleHandler.UpdateStatus)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		dbStatus := "ok"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := appCtx.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		services := gin.H{"database": dbStatus}
		if stats := appCtx.PoolStats(); stats != nil {
			services["database_pool"] = stats
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
