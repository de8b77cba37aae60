package handlers

import (
	"github.com/gin-gonic/gin"

	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves the global bottle inventory.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Setup handles POST /inventory/setup.
func (h *InventoryHandler) Setup(c *gin.Context) {
	var req dto.SetupInventoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tb, err := h.service.Setup(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, tb)
}

// Get handles GET /inventory.
func (h *InventoryHandler) Get(c *gin.Context) {
	tb, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tb)
}

// AddBottles handles POST /inventory/bottles.
func (h *InventoryHandler) AddBottles(c *gin.Context) {
	var req dto.BottleCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tb, err := h.service.AddBottles(c.Request.Context(), req.Bottles)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tb)
}

// RecordDamage handles POST /inventory/damage.
func (h *InventoryHandler) RecordDamage(c *gin.Context) {
	var req dto.BottleCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tb, err := h.service.RecordDamage(c.Request.Context(), req.Bottles)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tb)
}

// Edit handles PUT /inventory.
func (h *InventoryHandler) Edit(c *gin.Context) {
	var req dto.EditInventoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tb, err := h.service.Edit(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tb)
}
