package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wildlife-catalog-backend/internal/infrastructure/metrics"
	"wildlife-catalog-backend/internal/shared/middleware"
	"wildlife-catalog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.Identity(c.JWTManager),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupEcosystemRoutes(v1, c)
		setupSpeciesRoutes(v1, c)
		setupContributionRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// ECOSYSTEM ROUTES
// ========================================
func setupEcosystemRoutes(v1 *gin.RouterGroup, c *container.Container) {
	ecosystems := v1.Group("/ecosystems")
	{
		ecosystems.GET("", c.EcosystemHandler.ListEcosystems)
		ecosystems.GET("/:slug", c.EcosystemHandler.GetEcosystem)
	}
}

// ========================================
// SPECIES ROUTES
// ========================================
func setupSpeciesRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/search", c.SpeciesHandler.ListSpecies)

	species := v1.Group("/species")
	{
		// Public
		species.GET("", c.SpeciesHandler.ListSpecies)
		species.GET("/:id", c.SpeciesHandler.GetSpecies)

		// Authenticated
		species.POST("", middleware.RequireCaller(), c.SpeciesHandler.CreateSpecies)
		species.PATCH("/:id", middleware.RequireCaller(), c.SpeciesHandler.UpdateSpecies)
		species.DELETE("/:id", middleware.RequireCaller(), c.SpeciesHandler.DeleteSpecies)
	}
}

// ========================================
// CONTRIBUTION ROUTES
// ========================================
func setupContributionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/my-contributions", middleware.RequireCaller(), c.ContributionHandler.ListMyContributions)

	contributions := v1.Group("/contributions", middleware.RequireCaller())
	{
		contributions.GET("", c.ContributionHandler.ListContributions)
		contributions.POST("", c.ContributionHandler.CreateContribution)
		contributions.GET("/:id", c.ContributionHandler.GetContribution)
		contributions.PATCH("/:id", c.ContributionHandler.UpdateContribution)
		contributions.DELETE("/:id", c.ContributionHandler.DeleteContribution)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/species/pending", c.SpeciesHandler.ListPendingSpecies)
		admin.PATCH("/species/:id/approve", c.SpeciesHandler.ApproveSpecies)
		// Rejecting a species suggestion is deleting it
		admin.DELETE("/species/:id", c.SpeciesHandler.DeleteSpecies)

		admin.PATCH("/contributions/:id/approve", c.ContributionHandler.ApproveContribution)
		admin.PATCH("/contributions/:id/reject", c.ContributionHandler.RejectContribution)

		admin.POST("/ecosystems", c.EcosystemHandler.CreateEcosystem)
		admin.PATCH("/ecosystems/:id", c.EcosystemHandler.UpdateEcosystem)
		admin.DELETE("/ecosystems/:id", c.EcosystemHandler.DeleteEcosystem)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services := appCtx.HealthCheck(ctx)
		status := "ok"
		for name, state := range services {
			if name != "store" && state != "ok" {
				status = "degraded"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
