package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
)

// TokenValidator resolves a bearer token to the actor it was issued for.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.Actor, error)
}

// Auth requires a valid bearer token and puts the actor into the request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		actor, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				_ = c.Error(appErr)
			} else {
				_ = c.Error(apperror.NewUnauthorized("invalid token"))
			}
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(appctx.WithActor(c.Request.Context(), actor))
		c.Set(ctxActorID, actor.ID)

		c.Next()
	}
}

// RequireRole lets the request through only if the actor has one of roles.
func RequireRole(roles ...appctx.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := appctx.GetActor(c.Request.Context())
		if actor == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
