// internal/handlers/handler.go
package handlers

import (
	"context"
	"encoding/json"

	"mediarelay/internal/common/errors"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/common/validation"
	"mediarelay/internal/models"
)

// Handler turns one raw webhook payload into a normalized notification
// message. A nil message with a nil error means the payload was invalid or
// the event is suppressed; no delivery is attempted and it is not a failure.
// A non-nil error is an unexpected fault and is caught at the router boundary.
type Handler interface {
	Source() models.Source
	HandleNotification(ctx context.Context, payload json.RawMessage) (*models.NotificationMessage, error)
}

// LogInvalidPayload records a dropped payload as a PAYLOAD_INVALID pipeline
// error. Invalid payloads are never faults; they end here.
func LogInvalidPayload(log logger.Logger, source models.Source, res *validation.Result) {
	serr := errors.NewPayloadValidationError(source.String(), res.Fields())
	log.Warn("invalid payload dropped", map[string]interface{}{
		"error":    serr.Error(),
		"category": errors.GetErrorCategory(serr.Code),
	})
}
