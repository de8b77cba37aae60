package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	token, expires, err := svc.GenerateAccessToken(appctx.Actor{ID: "m-1", Name: "Ravi", Role: appctx.RoleModerator})
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "m-1", actor.ID)
	assert.Equal(t, "Ravi", actor.Name)
	assert.Equal(t, appctx.RoleModerator, actor.Role)
	assert.NotEmpty(t, actor.SessionID)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("one"))
	verifier := NewJWTService(DefaultJWTConfig("two"))

	token, _, err := issuer.GenerateAccessToken(appctx.Actor{ID: "a", Role: appctx.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestJWT_RejectsExpired(t *testing.T) {
	svc := NewJWTService(JWTConfig{Secret: "s", AccessTokenTTL: time.Minute})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateAccessToken(appctx.Actor{ID: "a", Role: appctx.RoleAdmin})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "token expired", appErr.Message)
}

func TestJWT_RejectsUnknownRole(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("s"))

	_, _, err := svc.GenerateAccessToken(appctx.Actor{ID: "a", Role: "owner"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
