// internal/handlers/radarr/models.go
package radarr

// Payload is the movie-fetcher webhook body. Movie and RemoteMovie carry the
// same shape; whichever is present wins.
type Payload struct {
	EventType    string   `json:"eventType"`
	InstanceName string   `json:"instanceName"`
	Movie        *Movie   `json:"movie"`
	RemoteMovie  *Movie   `json:"remoteMovie"`
	Release      *Release `json:"release"`
}

type Movie struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	ImdbID  string   `json:"imdbId"`
	TmdbID  int64    `json:"tmdbId"`
	Path    string   `json:"path"`
	Quality *Quality `json:"quality"`
}

type Release struct {
	ReleaseTitle string   `json:"releaseTitle"`
	Indexer      string   `json:"indexer"`
	Size         int64    `json:"size"`
	Quality      *Quality `json:"quality"`
}

// Quality is the doubly nested quality descriptor the *arr webhook format
// uses: quality.quality.name.
type Quality struct {
	Quality struct {
		Name string `json:"name"`
	} `json:"quality"`
}

func (q *Quality) Name() string {
	if q == nil {
		return ""
	}
	return q.Quality.Name
}

type eventInfo struct {
	Emoji string
	Color int
	Name  string
}

var eventTypes = map[string]eventInfo{
	"Download":          {Emoji: "📥", Color: 0x00ff00, Name: "Download complete"},
	"Rename":            {Emoji: "🔄", Color: 0x0099ff, Name: "Files renamed"},
	"MovieFileDelete":   {Emoji: "🗑️", Color: 0xff6600, Name: "File deleted"},
	"MovieDelete":       {Emoji: "❌", Color: 0xff0000, Name: "Movie deleted"},
	"Grab":              {Emoji: "🎯", Color: 0xffff00, Name: "Release grabbed"},
	"Test":              {Emoji: "🧪", Color: 0x7289da, Name: "Test"},
	"Health":            {Emoji: "❤️", Color: 0x00cc99, Name: "Health"},
	"ApplicationUpdate": {Emoji: "🆙", Color: 0x9966cc, Name: "Application update"},
}

const defaultColor = 0x7289da

// eventTypeInfo resolves the display attributes for an event. Unknown events
// still render, with the raw event type as the display name.
func eventTypeInfo(eventType string) eventInfo {
	if info, ok := eventTypes[eventType]; ok {
		return info
	}
	name := eventType
	if name == "" {
		name = "Unknown event"
	}
	return eventInfo{Emoji: "📡", Color: defaultColor, Name: name}
}

const (
	authorName    = "Radarr"
	authorIconURL = "https://raw.githubusercontent.com/Radarr/Radarr/develop/Logo/256.png"
	footerIconURL = "https://raw.githubusercontent.com/Radarr/Radarr/develop/Logo/64.png"
)
