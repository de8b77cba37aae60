// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "aquaops/internal/core/context"
	"aquaops/internal/infrastructure/http/v1/middleware"
)

// ResourceRouteHandler is implemented by every handlers.ResourceHandler.
type ResourceRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RouteAccess lists the roles allowed to read and to write a resource.
type RouteAccess struct {
	Read  []appctx.Role
	Write []appctx.Role
}

var (
	// AnyRole lets administrators and moderators through.
	AnyRole = []appctx.Role{appctx.RoleAdmin, appctx.RoleModerator}
	// AdminOnly restricts a route to administrators.
	AdminOnly = []appctx.Role{appctx.RoleAdmin}
)

// RegisterResourceRoutes registers the standard CRUD routes for a resource.
//
// Usage:
//
//	handler := handlers.NewDeliveryHandler(base, services.Deliveries)
//	RegisterResourceRoutes(api.Group("/deliveries"), handler, RouteAccess{Read: AnyRole, Write: AnyRole})
func RegisterResourceRoutes(group *gin.RouterGroup, handler ResourceRouteHandler, access RouteAccess) {
	read := middleware.RequireRole(access.Read...)
	write := middleware.RequireRole(access.Write...)

	group.GET("", read, handler.List)
	group.POST("", write, handler.Create)
	group.GET("/:id", read, handler.Get)
	group.PUT("/:id", write, handler.Update)
	group.DELETE("/:id", write, handler.Delete)
}
