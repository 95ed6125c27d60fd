// internal/handlers/tdarr/config.go
package tdarr

// defaultNotifications is the per-event send policy applied when the operator
// configures nothing. file_processing is off: one event per worker tick is too
// chatty for a notification channel.
var defaultNotifications = map[string]bool{
	"file_processed":        true,
	"file_processing":       false,
	"file_error":            true,
	"file_skipped":          false,
	"worker_started":        false,
	"worker_stopped":        true,
	"library_scan_complete": true,
	"health_check":          false,
}

// Config holds the operator overrides for which transcoder events produce
// notifications.
type Config struct {
	Notifications map[string]bool
}

// ShouldNotify reports whether the event should be delivered: operator
// override first, then the defaults, then true for event types neither knows.
func (c Config) ShouldNotify(event string) bool {
	if enabled, ok := c.Notifications[event]; ok {
		return enabled
	}
	if enabled, ok := defaultNotifications[event]; ok {
		return enabled
	}
	return true
}
