// internal/models/source.go
package models

import "strings"

// Source identifies an upstream service that posts webhooks to the bridge.
type Source string

const (
	SourceOverseerr Source = "overseerr"
	SourceRadarr    Source = "radarr"
	SourceSonarr    Source = "sonarr"
	SourceTdarr     Source = "tdarr"
)

// Sources lists every supported source in a stable order.
var Sources = []Source{SourceOverseerr, SourceRadarr, SourceSonarr, SourceTdarr}

// ParseSource maps a path token to a known source.
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceOverseerr, SourceRadarr, SourceSonarr, SourceTdarr:
		return Source(s), true
	}
	return "", false
}

func (s Source) String() string {
	return string(s)
}

// Upper returns the source tag used in admin footers, e.g. "RADARR".
func (s Source) Upper() string {
	return strings.ToUpper(string(s))
}
