// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadValidationError(t *testing.T) {
	err := NewPayloadValidationError("radarr", []string{"eventType", "movie"})

	assert.Equal(t, ErrPayloadInvalid, err.Code)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "eventType, movie")
}

func TestConstructorsCarryCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	tests := []struct {
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{NewEnrichmentFailedError("movie", cause), ErrEnrichmentFailed, true},
		{NewChannelResolutionError("chan-1", "not cached"), ErrChannelResolutionFailed, false},
		{NewSendFailedError("chan-1", cause), ErrSendFailed, true},
		{NewHandlerFaultError("tdarr", "boom"), ErrHandlerFault, false},
		{NewExternalServiceError("/api/v3/system/status", cause), ErrExternalService, true},
		{NewStoreOperationError("get", cause), ErrStoreOperation, true},
		{NewTimeoutError("/api/v1/movie/42", cause), ErrTimeout, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.retryable, tt.err.Retryable)
		assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.err.Code))
		assert.False(t, tt.err.Timestamp.IsZero())
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "validation", GetErrorCategory(ErrPayloadInvalid))
	assert.Equal(t, "enrichment", GetErrorCategory(ErrEnrichmentFailed))
	assert.Equal(t, "delivery", GetErrorCategory(ErrChannelResolutionFailed))
	assert.Equal(t, "delivery", GetErrorCategory(ErrSendFailed))
	assert.Equal(t, "handler", GetErrorCategory(ErrHandlerFault))
	assert.Equal(t, "infrastructure", GetErrorCategory(ErrStoreOperation))
	assert.Equal(t, "internal", GetErrorCategory(ErrorCode("SOMETHING_ELSE")))
}
