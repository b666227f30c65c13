// server/internal/api/routes/routes.go
package routes

import (
	"slices"
	"time"

	"square-feet-api/config"
	"square-feet-api/internal/api/handlers"
	"square-feet-api/internal/api/middleware"
	"square-feet-api/internal/logging"
	"square-feet-api/internal/repository"
	"square-feet-api/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.SellerIDHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// SetupRouter wires the listing API on top of store.
func SetupRouter(store repository.PropertyStore, cfg config.Config) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(cfg.Listing.Market); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.Server.CorsOrigins)))

	propertyHandler := &handlers.PropertyHandler{
		Store:   store,
		Policy:  workflow.Policy{Strict: cfg.Workflow.StrictTransitions},
		Listing: cfg.Listing,
	}
	adminHandler := &handlers.AdminHandler{Properties: propertyHandler}
	systemHandler := &handlers.SystemHandler{
		Env:     cfg.Server.Env,
		Store:   cfg.Store.Driver,
		Started: time.Now(),
	}

	router.GET("/", systemHandler.Root)
	router.NoRoute(systemHandler.NotFound)

	api := router.Group("/api")
	{
		api.GET("/health", systemHandler.Health)
		api.GET("/status", systemHandler.Status)

		business := api.Group("/")
		business.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))
		business.Use(middleware.DemoSeller(cfg.Listing.DemoSellerID))
		{
			properties := business.Group("/properties")
			{
				properties.GET("", propertyHandler.ListProperties)
				properties.POST("", propertyHandler.CreateProperty)
				properties.GET("/:id", propertyHandler.GetProperty)
				properties.PUT("/:id", propertyHandler.UpdateProperty)
				properties.DELETE("/:id", propertyHandler.DeleteProperty)
				properties.POST("/:id/approve", adminHandler.ApproveProperty)
				properties.POST("/:id/reject", adminHandler.RejectProperty)
			}

			business.GET("/sellers/me/properties", propertyHandler.ListMyProperties)

			admin := business.Group("/admin")
			{
				admin.POST("/reconcile", adminHandler.Reconcile)
			}
		}
	}

	return router, nil
}
