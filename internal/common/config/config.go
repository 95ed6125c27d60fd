// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chat     ChatConfig     `mapstructure:"chat"`
	APIs     APIsConfig     `mapstructure:"apis"`
	Webhooks WebhooksConfig `mapstructure:"webhooks"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the inbound webhook HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// ChatConfig holds the chat-platform REST client settings.
type ChatConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// APIsConfig holds settings for the media-management service APIs.
type APIsConfig struct {
	Overseerr MediaAPIConfig `mapstructure:"overseerr"`
	Radarr    MediaAPIConfig `mapstructure:"radarr"`
	Sonarr    MediaAPIConfig `mapstructure:"sonarr"`
}

type MediaAPIConfig struct {
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// WebhooksConfig holds the destination channels consumed by the fan-out
// component and the per-source suppression settings.
type WebhooksConfig struct {
	// AdminGuildID is the community that hosts the administrative channels.
	AdminGuildID string `mapstructure:"admin_guild_id"`
	// NotificationChannelID receives the administrative copy of every message.
	NotificationChannelID string `mapstructure:"notification_channel_id"`
	// DebugChannelID receives the raw payload of every webhook as a file.
	DebugChannelID string `mapstructure:"debug_channel_id"`
	// AdminChannels maps a source to its dedicated per-source debug channel.
	AdminChannels map[string]string `mapstructure:"admin_channels"`
	// TdarrNotifications decides per event type whether a Tdarr webhook
	// produces a notification at all. Unset events use the handler defaults.
	TdarrNotifications map[string]bool `mapstructure:"tdarr_notifications"`
}

// AuditConfig controls the Elasticsearch audit trail of raw payloads.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
