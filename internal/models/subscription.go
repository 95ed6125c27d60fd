// internal/models/subscription.go
package models

import "time"

// Subscription is one (source, guild) association. Display names are captured
// at write time for presentation and are not re-fetched on read.
type Subscription struct {
	ChannelID   string    `json:"channelId"`
	GuildName   string    `json:"guildName"`
	ChannelName string    `json:"channelName"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
