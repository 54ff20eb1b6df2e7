package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

const dateLayout = "2006-01-02"

// respondError maps service errors onto HTTP responses: business-rule
// violations become 400 with the operator-facing reason, everything else is a
// logged 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if models.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error("request failed",
		zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "não encontrado"})
}

// parseDate parses a YYYY-MM-DD query value; ok is false when value is empty
// or malformed.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dateRange resolves the inicio/fim query pair, defaulting to a forward
// window of defaultDays starting today.
func dateRange(c *gin.Context, defaultDays int) (time.Time, time.Time) {
	today := models.DateOnly(time.Now().UTC())
	from, ok := parseDate(c.Query("inicio"))
	if !ok {
		from = today
	}
	to, ok := parseDate(c.Query("fim"))
	if !ok {
		to = from.AddDate(0, 0, defaultDays)
	}
	return from, to
}
