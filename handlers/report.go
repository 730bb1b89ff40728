package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meditrack/cmms_backend/models/reports"
)

func asOfFromQuery(c *gin.Context) time.Time {
	if v := c.Query("as_of"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
	}
	return time.Now()
}

func (h *Handler) ComplianceSummary(c *gin.Context) {
	summary, err := reports.GetComplianceSummary(c.Request.Context(), h.DB, asOfFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) AssetValueSummary(c *gin.Context) {
	summary, err := reports.GetAssetValueSummary(c.Request.Context(), h.DB, asOfFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
