package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alktbihd/mentalhealth/internal/services"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

type StatsHandler struct {
	BaseHandler
	statsService  services.StatsService
	exportService services.ExportService
}

func NewStatsHandler(
	statsService services.StatsService,
	exportService services.ExportService,
	logger utils.Logger,
) *StatsHandler {
	return &StatsHandler{
		BaseHandler:   NewBaseHandler(logger),
		statsService:  statsService,
		exportService: exportService,
	}
}

// AverageScore returns the mean of all stored scores, 0 when no records
// exist yet.
func (h *StatsHandler) AverageScore(c *gin.Context) {
	avg, err := h.statsService.Average(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to get average score")
		return
	}

	averageScore := 0.0
	if avg != nil {
		averageScore = *avg
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"averageScore": averageScore,
	})
}

// ScoreDistribution returns per-bucket submission counts.
func (h *StatsHandler) ScoreDistribution(c *gin.Context) {
	dist, err := h.statsService.Distribution(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to get score distribution")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"distribution": dist,
	})
}

// Export streams the latest submissions as an xlsx attachment.
func (h *StatsHandler) Export(c *gin.Context) {
	limit := ParseLimitQuery(c, "limit")

	data, err := h.exportService.ExportLatestToExcel(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err, "Failed to export assessments")
		return
	}

	filename := fmt.Sprintf("assessments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}
