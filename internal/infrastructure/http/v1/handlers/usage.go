package handlers

import (
	"github.com/gin-gonic/gin"

	"aquaops/internal/core/id"
	"aquaops/internal/domain/documents"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/infrastructure/http/v1/dto"
)

// UsageHandler serves the per moderator bottle usage register.
type UsageHandler struct {
	*BaseHandler
	service *usage.Service
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(base *BaseHandler, service *usage.Service) *UsageHandler {
	return &UsageHandler{
		BaseHandler: base,
		service:     service,
	}
}

// moderator resolves whose usage a request acts on. Moderators always get
// their own record.
func (h *UsageHandler) moderator(c *gin.Context, requested id.ID) (id.ID, bool) {
	mid, err := documents.ResolveModerator(c.Request.Context(), requested)
	if err != nil {
		h.Error(c, err)
		return id.Nil(), false
	}
	return mid, true
}

// Today handles GET /usage/today?moderatorId=.
func (h *UsageHandler) Today(c *gin.Context) {
	requested, err := dto.OptionalID("moderatorId", c.Query("moderatorId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	var want id.ID
	if requested != nil {
		want = *requested
	}
	mid, ok := h.moderator(c, want)
	if !ok {
		return
	}

	u, err := h.service.Today(c.Request.Context(), mid)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// Take handles POST /usage/take.
func (h *UsageHandler) Take(c *gin.Context) {
	var req dto.TakeBottlesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	mid, ok := h.moderator(c, req.ModeratorID)
	if !ok {
		return
	}
	u, err := h.service.TakeFilled(c.Request.Context(), mid, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// Return handles POST /usage/return.
func (h *UsageHandler) Return(c *gin.Context) {
	var req dto.ReturnBottlesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	mid, ok := h.moderator(c, req.ModeratorID)
	if !ok {
		return
	}
	u, err := h.service.Return(c.Request.Context(), mid, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// Done handles POST /usage/done.
func (h *UsageHandler) Done(c *gin.Context) {
	var req dto.MarkDoneRequest
	if !h.BindJSON(c, &req) {
		return
	}
	mid, ok := h.moderator(c, req.ModeratorID)
	if !ok {
		return
	}
	u, err := h.service.MarkDone(c.Request.Context(), mid, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// List handles GET /usage.
func (h *UsageHandler) List(c *gin.Context) {
	q, ok := h.ListFilter(c)
	if !ok {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Reset handles DELETE /usage/:moderatorId/:day.
func (h *UsageHandler) Reset(c *gin.Context) {
	mid, ok := h.ParseID(c, "moderatorId")
	if !ok {
		return
	}
	day, err := dto.OptionalDay("day", c.Param("day"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Reset(c.Request.Context(), mid, day); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
