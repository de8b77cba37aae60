package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/infrastructure/storage/postgres"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"
const maxIdempotencyBodyBytes = 1 << 20 // 1 MiB

// IdempotencyStore records the outcome of keyed requests.
// *postgres.IdempotencyStore implements it.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, actorID, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	ReleaseKey(ctx context.Context, key string) error
}

// Idempotency replays the stored response of a POST, PUT or PATCH sent
// again with the same X-Idempotency-Key. Requests without the header pass through.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}

		limited := io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1)
		body, _ := io.ReadAll(limited)
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			_ = c.Error(appErr.WithDetail("max_bytes", maxIdempotencyBodyBytes))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := sha256.Sum256(body)

		// The path is part of the operation so one key cannot be reused
		// across resources.
		operation := c.Request.Method + " " + c.Request.URL.Path

		ctx := c.Request.Context()
		replay, err := store.AcquireKey(ctx, key, appctx.GetActorID(ctx), operation, hex.EncodeToString(hash[:]))
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				_ = c.Error(appErr)
			} else {
				_ = c.Error(apperror.NewInternal(err).WithDetail("component", "idempotency"))
			}
			c.Abort()
			return
		}

		if replay != nil {
			c.Header("Idempotent-Replayed", "true")
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyKey, key)
		c.Set(ctxIdempotency, store)

		c.Next()
	}
}

// IdempotencyFrom returns the key and store attached to a request, if any.
func IdempotencyFrom(c *gin.Context) (string, IdempotencyStore) {
	return idempotencyFrom(c)
}

func idempotencyFrom(c *gin.Context) (string, IdempotencyStore) {
	key := c.GetString(ctxIdempotencyKey)
	if key == "" {
		return "", nil
	}
	v, ok := c.Get(ctxIdempotency)
	if !ok {
		return "", nil
	}
	store, ok := v.(IdempotencyStore)
	if !ok {
		return "", nil
	}
	return key, store
}
