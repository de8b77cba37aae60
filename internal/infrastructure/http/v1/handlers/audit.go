package handlers

import (
	"github.com/gin-gonic/gin"

	"aquaops/internal/domain/audit"
)

// AuditHandler serves the change history of ledger entities.
type AuditHandler struct {
	*BaseHandler
	service *audit.Service
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, service *audit.Service) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// History handles GET /audit/:entity/:id?limit=.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var q struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
	}
	if !h.BindQuery(c, &q) {
		return
	}

	entries, err := h.service.History(c.Request.Context(), c.Param("entity"), entityID, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	h.OK(c, gin.H{"items": entries})
}
