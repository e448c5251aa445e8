package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/services"
	"github.com/SAP-F-2025/grade-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	gradeHandler   *GradeHandler
	catalogHandler *CatalogHandler
}

func NewHandlerManager(
	gradeService services.GradeService,
	catalogService services.CatalogService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		gradeHandler:   NewGradeHandler(gradeService, logger),
		catalogHandler: NewCatalogHandler(catalogService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/weights", hm.gradeHandler.GetWeights)

		// Term catalog routes
		terms := v1.Group("/terms")
		{
			terms.GET("", hm.catalogHandler.ListTerms)
			terms.POST("", hm.catalogHandler.CreateTerm)
			terms.POST("/import", hm.catalogHandler.ImportCatalog)
			terms.GET("/:code", hm.catalogHandler.GetTerm)
			terms.DELETE("/:code", hm.catalogHandler.DeleteTerm)
			terms.GET("/:code/export", hm.catalogHandler.ExportCatalog)

			// Grade calculation
			terms.POST("/:code/grade", hm.gradeHandler.CalculateGrade)
			terms.POST("/:code/report", hm.gradeHandler.DownloadReport)
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
