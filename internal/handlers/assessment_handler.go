package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/services"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	statsService      services.StatsService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	statsService services.StatsService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		statsService:      statsService,
	}
}

// CalculateResults scores a questionnaire and returns the result together
// with the population average. The submission is persisted best-effort after
// the response is built.
func (h *AssessmentHandler) CalculateResults(c *gin.Context) {
	var req services.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	results, err := h.assessmentService.Calculate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to calculate results")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}

// SubmitAssessment persists a client-pre-scored submission synchronously;
// a store failure surfaces as a 500.
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	assessmentID, err := h.assessmentService.Submit(c.Request.Context(), &req)
	if err != nil {
		if services.IsValidation(err) {
			h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err)
			return
		}
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to submit assessment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Assessment submitted successfully",
		"assessmentId": assessmentID,
	})
}

// UserHistory returns one user's submissions, newest first.
func (h *AssessmentHandler) UserHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		h.RespondWithError(c, http.StatusBadRequest, "User ID is required", nil)
		return
	}

	history, err := h.statsService.UserHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get user history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
	})
}

// Latest returns the most recent submissions across all users.
func (h *AssessmentHandler) Latest(c *gin.Context) {
	limit := ParseLimitQuery(c, "limit")

	latest, err := h.statsService.Latest(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get latest assessments")
		return
	}

	if latest == nil {
		latest = []models.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assessments": latest,
	})
}
