package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alktbihd/mentalhealth/internal/services"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides shared logging and error mapping for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// RespondWithError sends the standard error envelope and logs it.
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error) {
	resp := ErrorResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
		h.logger.LogError(err, message,
			"status_code", statusCode,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	} else {
		h.logger.Warn(message,
			"status_code", statusCode,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(statusCode, resp)
}

// handleServiceError maps service errors onto the documented status codes:
// validation failures are 400, everything else is 500 with raw error text.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, message string) {
	if services.IsValidation(err) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err)
		return
	}
	h.RespondWithError(c, http.StatusInternalServerError, message, err)
}
