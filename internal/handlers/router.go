package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alktbihd/mentalhealth/internal/services"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	statsHandler      *StatsHandler
	quoteHandler      *QuoteHandler
}

func NewHandlerManager(
	assessmentService services.AssessmentService,
	statsService services.StatsService,
	exportService services.ExportService,
	quoteService services.QuoteService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(assessmentService, statsService, logger),
		statsHandler:      NewStatsHandler(statsService, exportService, logger),
		quoteHandler:      NewQuoteHandler(quoteService, logger),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "mentalhealth",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/calculate-results", hm.assessmentHandler.CalculateResults)
		api.POST("/submit-assessment", hm.assessmentHandler.SubmitAssessment)
		api.GET("/average-score", hm.statsHandler.AverageScore)
		api.GET("/score-distribution", hm.statsHandler.ScoreDistribution)
		api.GET("/user-history/:userId", hm.assessmentHandler.UserHistory)
		api.GET("/latest", hm.assessmentHandler.Latest)
		api.GET("/quote", hm.quoteHandler.GetQuote)
		api.GET("/export", hm.statsHandler.Export)
	}
}
