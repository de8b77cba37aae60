// Package auth issues and verifies the bearer tokens that identify dashboard actors.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/id"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "aquaops",
		AccessTokenTTL: 12 * time.Hour,
	}
}

// Claims represents JWT claims. Subject is the actor ID.
type Claims struct {
	jwt.RegisteredClaims
	Name string      `json:"name,omitempty"`
	Role appctx.Role `json:"role"`
}

// JWTService handles JWT operations.
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	if config.Issuer == "" {
		config.Issuer = "aquaops"
	}
	if config.AccessTokenTTL <= 0 {
		config.AccessTokenTTL = 12 * time.Hour
	}
	return &JWTService{config: config, now: time.Now}
}

// GenerateAccessToken signs a token for actor.
func (s *JWTService) GenerateAccessToken(actor appctx.Actor) (string, time.Time, error) {
	if !actor.Role.Valid() {
		return "", time.Time{}, apperror.NewValidation("unknown role").WithDetail("role", string(actor.Role))
	}
	if actor.ID == "" {
		return "", time.Time{}, apperror.NewValidation("actor id is required")
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.New().String(),
			Issuer:    s.config.Issuer,
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: actor.Name,
		Role: actor.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken verifies a token and returns the actor it names.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.NewUnauthorized("token expired")
		}
		return nil, apperror.NewUnauthorized("invalid token").WithCause(err)
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, apperror.NewUnauthorized("invalid token claims")
	}

	return &appctx.Actor{
		ID:        claims.Subject,
		Name:      claims.Name,
		Role:      claims.Role,
		SessionID: claims.ID,
	}, nil
}
