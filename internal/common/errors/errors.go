// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode identifies a failure class in the notification pipeline.
type ErrorCode string

const (
	// Validation errors - the payload is malformed or incomplete.
	ErrPayloadInvalid ErrorCode = "PAYLOAD_INVALID"

	// Enrichment errors - the metadata lookup failed or returned nothing.
	ErrEnrichmentFailed ErrorCode = "ENRICHMENT_FAILED"

	// Delivery errors - a destination could not be resolved or written to.
	ErrChannelResolutionFailed ErrorCode = "CHANNEL_RESOLUTION_FAILED"
	ErrSendFailed              ErrorCode = "SEND_FAILED"

	// Handler errors - an unexpected fault inside a source handler.
	ErrHandlerFault ErrorCode = "HANDLER_FAULT"

	// Infrastructure errors.
	ErrExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrStoreOperation  ErrorCode = "STORE_OPERATION_FAILED"
	ErrTimeout         ErrorCode = "TIMEOUT"
	ErrInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error type carried across the pipeline. The dispatch
// router flattens these into DeliveryResult failure strings; none of them
// cross the router boundary as a Go error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPayloadValidationError reports the missing or invalid payload fields.
func NewPayloadValidationError(source string, missing []string) *StandardError {
	return &StandardError{
		Code:      ErrPayloadInvalid,
		Message:   fmt.Sprintf("invalid %s payload", source),
		Details:   strings.Join(missing, ", "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentFailedError wraps a failed metadata lookup. Enrichment failures
// are non-fatal: callers substitute placeholder text and continue.
func NewEnrichmentFailedError(mediaType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrEnrichmentFailed,
		Message:   fmt.Sprintf("metadata lookup failed for %s", mediaType),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewChannelResolutionError reports a destination that could not be resolved.
func NewChannelResolutionError(channelID, details string) *StandardError {
	return &StandardError{
		Code:      ErrChannelResolutionFailed,
		Message:   fmt.Sprintf("channel %s could not be resolved", channelID),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSendFailedError reports a rejected platform send call.
func NewSendFailedError(channelID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrSendFailed,
		Message:   fmt.Sprintf("send to channel %s failed", channelID),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHandlerFaultError wraps an unexpected fault caught at the router boundary.
func NewHandlerFaultError(source string, v interface{}) *StandardError {
	return &StandardError{
		Code:      ErrHandlerFault,
		Message:   fmt.Sprintf("handler for %s faulted", source),
		Details:   fmt.Sprintf("%v", v),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrExternalService,
		Message:   fmt.Sprintf("external service %s failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewStoreOperationError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrStoreOperation,
		Message:   fmt.Sprintf("subscription store %s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrTimeout,
		Message:   fmt.Sprintf("call to %s timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryableErrorCode reports whether a code describes a transient condition.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrEnrichmentFailed, ErrSendFailed, ErrExternalService, ErrStoreOperation, ErrTimeout:
		return true
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrPayloadInvalid:
		return "validation"
	case ErrEnrichmentFailed:
		return "enrichment"
	case ErrChannelResolutionFailed, ErrSendFailed:
		return "delivery"
	case ErrHandlerFault:
		return "handler"
	case ErrExternalService, ErrStoreOperation, ErrTimeout:
		return "infrastructure"
	}
	return "internal"
}
