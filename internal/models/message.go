// internal/models/message.go
package models

import "time"

// Author is the header line of a rendered notification.
type Author struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
}

// Field is one name/value pair on a notification. Order matters for rendering.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Footer carries source branding. The admin copy appends a delivery-count
// suffix to Text rather than replacing it.
type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// NotificationMessage is the normalized rendering output of a source handler.
// It is transient: built per inbound payload and discarded after delivery.
type NotificationMessage struct {
	Author       Author    `json:"author"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Color        int       `json:"color"`
	Fields       []Field   `json:"fields"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Footer       Footer    `json:"footer"`
}
