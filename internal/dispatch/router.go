// internal/dispatch/router.go
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediarelay/internal/common/errors"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/common/metrics"
	"mediarelay/internal/common/observability"
	"mediarelay/internal/handlers"
	"mediarelay/internal/models"
)

// Deliverer fans a rendered notification out to its destinations.
type Deliverer interface {
	Deliver(ctx context.Context, source models.Source, msg *models.NotificationMessage, raw json.RawMessage) *models.DeliveryResult
}

// Router is the single entry point of the notification pipeline: it selects
// the handler for a source, renders the payload, and hands the message to the
// fan-out. A handler fault never escapes; it degrades to a delivery result
// with one synthetic failure.
type Router struct {
	handlers  map[models.Source]handlers.Handler
	deliverer Deliverer
	obs       *observability.Observability
	logger    logger.Logger
}

func NewRouter(deliverer Deliverer, obs *observability.Observability, log logger.Logger) *Router {
	return &Router{
		handlers:  make(map[models.Source]handlers.Handler),
		deliverer: deliverer,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "router"}),
	}
}

// Register adds a handler to the registry, keyed by its source.
func (r *Router) Register(h handlers.Handler) {
	r.handlers[h.Source()] = h
}

// Dispatch processes one webhook end to end. It always returns a non-nil
// result; an empty result means the payload produced no deliverable message.
func (r *Router) Dispatch(ctx context.Context, source models.Source, payload json.RawMessage) *models.DeliveryResult {
	start := time.Now()
	metrics.WebhooksReceived.WithLabelValues(source.String()).Inc()

	h, ok := r.handlers[source]
	if !ok {
		r.logger.Warn("no handler registered for source", map[string]interface{}{
			"source": source.String(),
		})
		metrics.NotificationsDropped.WithLabelValues(source.String(), "unknown_source").Inc()
		r.record(ctx, source, "unknown_source", start)
		return &models.DeliveryResult{}
	}

	msg, err := r.render(ctx, h, payload)
	if err != nil {
		r.logger.Error("handler fault", map[string]interface{}{
			"source":  source.String(),
			"error":   err.Error(),
			"payload": string(payload),
		})
		metrics.NotificationsDropped.WithLabelValues(source.String(), "fault").Inc()
		r.record(ctx, source, "fault", start)

		result := &models.DeliveryResult{}
		result.AddFailure(fmt.Sprintf("handler for %s failed: %v", source, err))
		return result
	}

	if msg == nil {
		r.logger.Debug("payload produced no message", map[string]interface{}{
			"source": source.String(),
		})
		metrics.NotificationsDropped.WithLabelValues(source.String(), "suppressed").Inc()
		r.record(ctx, source, "suppressed", start)
		return &models.DeliveryResult{}
	}

	metrics.NotificationsRendered.WithLabelValues(source.String()).Inc()

	result := r.deliverer.Deliver(ctx, source, msg, payload)
	if result.HasFailures() {
		metrics.DeliveriesFailed.WithLabelValues(source.String()).Add(float64(len(result.Failed)))
		r.logger.Error("dispatch finished with failures", map[string]interface{}{
			"source":    source.String(),
			"totalSent": result.TotalSent,
			"failed":    result.Failed,
		})
	} else {
		r.logger.Info("dispatch complete", map[string]interface{}{
			"source":    source.String(),
			"totalSent": result.TotalSent,
		})
	}

	r.record(ctx, source, "delivered", start)
	return result
}

// render invokes the handler with a panic guard. Payloads are arbitrary
// external input; a panic in one handler must not take down the server.
func (r *Router) render(ctx context.Context, h handlers.Handler, payload json.RawMessage) (msg *models.NotificationMessage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			msg = nil
			err = errors.NewHandlerFaultError(h.Source().String(), rec)
		}
	}()
	return h.HandleNotification(ctx, payload)
}

func (r *Router) record(ctx context.Context, source models.Source, status string, start time.Time) {
	metrics.DispatchDuration.WithLabelValues(source.String()).Observe(time.Since(start).Seconds())
	if r.obs != nil {
		r.obs.RecordWebhookProcessed(ctx, source.String(), status)
		r.obs.RecordDispatchDuration(ctx, source.String(), time.Since(start))
	}
}
