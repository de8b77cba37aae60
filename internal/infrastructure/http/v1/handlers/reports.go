package handlers

import (
	"github.com/gin-gonic/gin"

	"aquaops/internal/domain/reports"
	"aquaops/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Daily handles GET /reports/daily?day=&moderatorId=.
func (h *ReportsHandler) Daily(c *gin.Context) {
	var q dto.DailyReportQuery
	if !h.BindQuery(c, &q) {
		return
	}
	day, moderatorID, err := q.Parse()
	if err != nil {
		h.Error(c, err)
		return
	}

	summary, err := h.service.DailySummary(c.Request.Context(), day, moderatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
