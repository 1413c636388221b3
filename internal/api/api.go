// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/api/handlers"
	"github.com/andresuchdata/stockrisk/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository"
	"github.com/andresuchdata/stockrisk/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	RiskService *service.RiskService
	Products    repository.ProductRepository
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.RiskService != nil {
			riskHandler := handlers.NewRiskHandler(services.RiskService)
			riskGroup := apiGroup.Group("/risk")
			{
				riskGroup.POST("/simulate", riskHandler.Simulate)
				riskGroup.POST("/analyze", riskHandler.Analyze)
				riskGroup.POST("/impact", riskHandler.Impact)
				riskGroup.POST("/optimize", riskHandler.Optimize)
				riskGroup.POST("/optimize/:sku", riskHandler.OptimizeSKU)
				riskGroup.GET("/portfolio", riskHandler.Portfolio)
				riskGroup.GET("/optimizations", riskHandler.Optimizations)
				riskGroup.GET("/optimizations/:sku", riskHandler.Optimizations)
			}
		}

		if services.Products != nil {
			productHandler := handlers.NewProductHandler(services.Products)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.List)
				productGroup.GET("/:sku", productHandler.Get)
				productGroup.POST("", productHandler.Upsert)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
