package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValidation_CarriesFieldAndValue(t *testing.T) {
	err := NewFieldValidation("remaining_bottles", int64(-3))

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "remaining_bottles", err.Details["field"])
	assert.Equal(t, int64(-3), err.Details["value"])
	assert.False(t, err.Retryable)
}

func TestInsufficientStock_Details(t *testing.T) {
	err := NewInsufficientStock("remaining_bottles", 150, 100)

	assert.Equal(t, CodeInsufficientStock, err.Code)
	assert.Equal(t, int64(150), err.Details["requested"])
	assert.Equal(t, int64(100), err.Details["available"])
}

func TestTransactionFailed_StatusFollowsRetryable(t *testing.T) {
	cause := errors.New("serialization failure")

	permanent := NewTransactionFailed(cause, false)
	assert.Equal(t, http.StatusInternalServerError, permanent.HTTPStatus)
	assert.False(t, IsRetryable(permanent))

	transient := NewTransactionFailed(cause, true)
	assert.Equal(t, http.StatusServiceUnavailable, transient.HTTPStatus)
	assert.True(t, IsRetryable(transient))
	assert.ErrorIs(t, transient, cause)
}

func TestHelpers_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load customer: %w", NewNotFound("customer", "42"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConcurrentModification(wrapped))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(wrapped))

	assert.True(t, IsRetryable(NewConcurrentModification("total_bottles", "x")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}
