// internal/handlers/sonarr/models.go
package sonarr

// Payload is the TV-fetcher webhook body. Series and RemoteSeries carry the
// same shape; whichever is present wins.
type Payload struct {
	EventType    string     `json:"eventType"`
	InstanceName string     `json:"instanceName"`
	Series       *Series    `json:"series"`
	RemoteSeries *Series    `json:"remoteSeries"`
	Episodes     []Episode  `json:"episodes"`
	EpisodeFile  *MediaFile `json:"episodeFile"`
	Release      *Release   `json:"release"`
}

type Series struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	ImdbID  string `json:"imdbId"`
	TvdbID  int64  `json:"tvdbId"`
	TmdbID  int64  `json:"tmdbId"`
	Network string `json:"network"`
	Status  string `json:"status"`
	Path    string `json:"path"`
}

type Episode struct {
	SeasonNumber  int      `json:"seasonNumber"`
	EpisodeNumber int      `json:"episodeNumber"`
	Title         string   `json:"title"`
	AirDate       string   `json:"airDate"`
	Quality       *Quality `json:"quality"`
}

type MediaFile struct {
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
	"Download":          {Emoji: "📥", Color: 0x00ff00, Name: "Episode downloaded"},
	"EpisodeFileDelete": {Emoji: "🗑️", Color: 0xff6600, Name: "Episode deleted"},
	"Grab":              {Emoji: "🎯", Color: 0xffff00, Name: "Episode grabbed"},
	"Rename":            {Emoji: "🔄", Color: 0x0099ff, Name: "Episode renamed"},
	"SeriesDelete":      {Emoji: "❌", Color: 0xff0000, Name: "Series deleted"},
	"Test":              {Emoji: "🧪", Color: 0x7289da, Name: "Test"},
	"Health":            {Emoji: "❤️", Color: 0x00cc99, Name: "Health"},
	"ApplicationUpdate": {Emoji: "🆙", Color: 0x9966cc, Name: "Application update"},
}

const defaultColor = 0x7289da

func eventTypeInfo(eventType string) eventInfo {
	if info, ok := eventTypes[eventType]; ok {
		return info
	}
	name := eventType
	if name == "" {
		name = "Unknown event"
	}
	return eventInfo{Emoji: "📺", Color: defaultColor, Name: name}
}

const (
	authorName    = "Sonarr"
	authorIconURL = "https://raw.githubusercontent.com/Sonarr/Sonarr/develop/Logo/256.png"
	footerIconURL = "https://raw.githubusercontent.com/Sonarr/Sonarr/develop/Logo/64.png"
)
