package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/api/handlers"
	"github.com/cruse1977/netbox-acls/internal/config"
	"github.com/cruse1977/netbox-acls/internal/database"
	"github.com/cruse1977/netbox-acls/internal/logger"
	"github.com/cruse1977/netbox-acls/internal/metrics"
	"github.com/cruse1977/netbox-acls/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	inventoryService := services.NewInventoryService(db)
	accessListService := services.NewAccessListService(db, inventoryService)
	ruleService := services.NewACLRuleService(db, inventoryService)

	accessListHandler := handlers.NewAccessListHandler(accessListService, ruleService)
	api.GET("/access-lists", accessListHandler.List)
	api.POST("/access-lists", accessListHandler.Create)
	api.GET("/access-lists/:id", accessListHandler.Get)
	api.PUT("/access-lists/:id", accessListHandler.Update)
	api.DELETE("/access-lists/:id", accessListHandler.Delete)
	api.GET("/access-lists/:id/rules", accessListHandler.Rules)

	ruleHandler := handlers.NewACLRuleHandler(ruleService)
	api.GET("/standard-rules", ruleHandler.ListStandard)
	api.POST("/standard-rules", ruleHandler.CreateStandard)
	api.GET("/standard-rules/:id", ruleHandler.GetStandard)
	api.PUT("/standard-rules/:id", ruleHandler.UpdateStandard)
	api.DELETE("/standard-rules/:id", ruleHandler.DeleteStandard)

	api.GET("/extended-rules", ruleHandler.ListExtended)
	api.POST("/extended-rules", ruleHandler.CreateExtended)
	api.GET("/extended-rules/:id", ruleHandler.GetExtended)
	api.PUT("/extended-rules/:id", ruleHandler.UpdateExtended)
	api.DELETE("/extended-rules/:id", ruleHandler.DeleteExtended)

	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	api.GET("/devices", inventoryHandler.Devices)
	api.GET("/prefixes", inventoryHandler.Prefixes)
	api.GET("/tags", inventoryHandler.Tags)

	logger.Component("routes").WithField("environment", cfg.Environment).Info("API routes registered")
	return nil
}
