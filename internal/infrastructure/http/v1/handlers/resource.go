package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/infrastructure/http/v1/dto"
)

// ResourceService is the shape shared by the catalog and record services.
type ResourceService[T, CreateIn, UpdateIn any] interface {
	Create(ctx context.Context, in CreateIn) (T, error)
	GetByID(ctx context.Context, id id.ID) (T, error)
	Update(ctx context.Context, id id.ID, in UpdateIn) (T, error)
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// ResourceHandler serves create, read, update, delete and list for one resource.
type ResourceHandler[T, CreateIn, UpdateIn, CreateDTO, UpdateDTO any] struct {
	*BaseHandler
	service ResourceService[T, CreateIn, UpdateIn]

	mapCreate func(CreateDTO) CreateIn
	mapUpdate func(UpdateDTO) UpdateIn
}

// NewResourceHandler creates a resource handler. The mappers convert
// request bodies to service inputs.
func NewResourceHandler[T, CreateIn, UpdateIn, CreateDTO, UpdateDTO any](
	base *BaseHandler,
	service ResourceService[T, CreateIn, UpdateIn],
	mapCreate func(CreateDTO) CreateIn,
	mapUpdate func(UpdateDTO) UpdateIn,
) *ResourceHandler[T, CreateIn, UpdateIn, CreateDTO, UpdateDTO] {
	return &ResourceHandler[T, CreateIn, UpdateIn, CreateDTO, UpdateDTO]{
		BaseHandler: base,
		service:     service,
		mapCreate:   mapCreate,
		mapUpdate:   mapUpdate,
	}
}

// List handles GET /{resource}.
func (h *ResourceHandler[T, CI, UI, CD, UD]) List(c *gin.Context) {
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

// Get handles GET /{resource}/:id.
func (h *ResourceHandler[T, CI, UI, CD, UD]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, v)
}

// Create handles POST /{resource}.
func (h *ResourceHandler[T, CI, UI, CD, UD]) Create(c *gin.Context) {
	var req CD
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.service.Create(c.Request.Context(), h.mapCreate(req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, v)
}

// Update handles PUT /{resource}/:id.
func (h *ResourceHandler[T, CI, UI, CD, UD]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req UD
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.service.Update(c.Request.Context(), entityID, h.mapUpdate(req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, v)
}

// Delete handles DELETE /{resource}/:id.
func (h *ResourceHandler[T, CI, UI, CD, UD]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
