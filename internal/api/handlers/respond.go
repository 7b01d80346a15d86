package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/omnistore/stock-ledger/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. The
// reason reaches the caller verbatim so the UI can render an actionable
// message; internal errors stay generic and go to the logs instead.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindScope:
		status = http.StatusForbidden
		// Scope events are logged distinctly from ordinary validation failures.
		log.Warn().Err(err).
			Str("event", "scope_violation").
			Str("path", c.Request.URL.Path).
			Msg("scope check rejected request")
	case domain.KindConflict:
		status = http.StatusConflict
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": domain.Reason(err)})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
