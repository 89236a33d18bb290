package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alktbihd/mentalhealth/internal/services"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

type QuoteHandler struct {
	BaseHandler
	quoteService services.QuoteService
}

func NewQuoteHandler(quoteService services.QuoteService, logger utils.Logger) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler:  NewBaseHandler(logger),
		quoteService: quoteService,
	}
}

// GetQuote proxies the remote quotation service. Upstream failures are
// absorbed by the service; this endpoint always succeeds.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	result := h.quoteService.Fetch(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quote":   result.Quote,
		"source":  result.Source,
	})
}
