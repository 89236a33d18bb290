package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseLimitQuery reads a positive integer query parameter, returning 0 when
// it is missing or malformed so callers fall back to their default.
func ParseLimitQuery(c *gin.Context, param string) int {
	value := c.Query(param)
	if value == "" {
		return 0
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}
