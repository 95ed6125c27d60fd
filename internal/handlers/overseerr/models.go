// internal/handlers/overseerr/models.go
package overseerr

import "mediarelay/internal/models"

// Payload is the request-system webhook body. Either Event or
// NotificationType must be present; everything else is optional.
type Payload struct {
	NotificationType string       `json:"notification_type"`
	Event            string       `json:"event"`
	Subject          string       `json:"subject"`
	Message          string       `json:"message"`
	Image            string       `json:"image"`
	Media            *Media       `json:"media"`
	Request          *Request     `json:"request"`
	Extra            []ExtraEntry `json:"extra"`
}

// Media references the item the notification is about. TmdbID arrives as a
// string or a number depending on the notification agent.
type Media struct {
	MediaType string            `json:"media_type"`
	TmdbID    models.FlexString `json:"tmdbId"`
	Status    string            `json:"status"`
}

type Request struct {
	RequestID           string `json:"request_id"`
	RequestedByUsername string `json:"requestedBy_username"`
}

type ExtraEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// eventName returns whichever event descriptor the payload populated.
func (p *Payload) eventName() string {
	if p.Event != "" {
		return p.Event
	}
	return p.NotificationType
}

// Event colors by severity/category; the default is the platform blurple.
var eventColors = map[string]int{
	"REQUEST_APPROVED":               0x00ff00,
	"REQUEST_DENIED":                 0xff0000,
	"REQUEST_PENDING":                0xffff00,
	"MEDIA_AVAILABLE":                0x0099ff,
	"MEDIA_FAILED":                   0xff6600,
	"REQUEST_AUTOMATICALLY_APPROVED": 0x00cc99,
}

const defaultColor = 0x7289da

func embedColor(event, notificationType string) int {
	if c, ok := eventColors[event]; ok {
		return c
	}
	if c, ok := eventColors[notificationType]; ok {
		return c
	}
	return defaultColor
}

const (
	footerText    = "Overseerr"
	footerIconURL = "https://raw.githubusercontent.com/sct/overseerr/develop/public/logo_full.svg"
)
