package service

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ghazalyy/SSIP-App/shared"
)

const (
	// defaultAlertLimit is the number of recent alerts returned when no
	// limit is requested.
	defaultAlertLimit = 10
	// defaultQuoteLimit is the number of stored quotes returned when no
	// limit is requested.
	defaultQuoteLimit = 50
)

// parseLimitQuery interprets the provided query parameter as a positive
// result limit, falling back to the provided default when absent.
func parseLimitQuery(c *gin.Context, fallback int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, strconv.ErrSyntax
	}

	return parsed, nil
}

// parseBoolQuery interprets the provided query parameter as a boolean flag,
// absent or malformed values impose no filter.
func parseBoolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return false
	}

	return value
}

// handleScreener processes screening queries against the tracked universe.
func (p *Pipeline) handleScreener(c *gin.Context) {
	criteria := &shared.ScreeningCriteria{
		BullishOnly: parseBoolQuery(c, "bullish"),
		RSIOversold: parseBoolQuery(c, "oversold"),
		Undervalued: parseBoolQuery(c, "value"),
	}

	results := p.screener.Scan(c.Request.Context(), criteria)
	c.JSON(http.StatusOK, results)
}

// handleAlerts serves the most recently triggered alerts, newest first.
func (p *Pipeline) handleAlerts(c *gin.Context) {
	limit, err := parseLimitQuery(c, defaultAlertLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	c.JSON(http.StatusOK, p.alertEngine.Recent(limit))
}

// handleQuotes serves the stored quote history for an instrument, newest
// first.
func (p *Pipeline) handleQuotes(c *gin.Context) {
	limit, err := parseLimitQuery(c, defaultQuoteLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	quotes, err := p.cfg.QuoteStore.RecentQuotes(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		p.logger.Error().Msgf("querying quotes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "querying quotes failed"})
		return
	}

	c.JSON(http.StatusOK, quotes)
}
