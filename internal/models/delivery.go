// internal/models/delivery.go
package models

// DeliveryResult aggregates the per-destination outcome of one dispatch.
// Failed entries never count toward TotalSent.
type DeliveryResult struct {
	Success   []string `json:"success"`
	Failed    []string `json:"failed"`
	TotalSent int      `json:"totalSent"`
}

// AddSuccess records a delivered destination ("guildName - #channelName").
func (r *DeliveryResult) AddSuccess(destination string) {
	r.Success = append(r.Success, destination)
	r.TotalSent++
}

// AddFailure records a human-readable failure description.
func (r *DeliveryResult) AddFailure(description string) {
	r.Failed = append(r.Failed, description)
}

// HasFailures reports whether any destination failed.
func (r *DeliveryResult) HasFailures() bool {
	return len(r.Failed) > 0
}
