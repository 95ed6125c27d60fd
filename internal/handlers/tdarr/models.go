// internal/handlers/tdarr/models.go
package tdarr

import (
	"strings"

	"mediarelay/internal/models"
)

// Payload is the transcode-worker webhook body. Only Event is required;
// file events additionally need a file reference.
type Payload struct {
	Event            string             `json:"event"`
	File             string             `json:"file"`
	OriginalFilePath string             `json:"originalFilePath"`
	OutputFilePath   string             `json:"outputFilePath"`
	OriginalFileSize int64              `json:"originalFileSize"`
	OutputFileSize   int64              `json:"outputFileSize"`
	ProcessTime      float64            `json:"processTime"`
	Worker           models.FlexString  `json:"worker"`
	Library          string             `json:"library"`
	Error            string             `json:"error"`
	Percentage       *float64           `json:"percentage"`
	ETA              string             `json:"eta"`
	FPS              models.FlexString  `json:"fps"`
	Bitrate          models.FlexString  `json:"bitrate"`
}

var eventColors = map[string]int{
	"file_processed":        0x00ff00,
	"file_processing":       0xffff00,
	"file_error":            0xff0000,
	"file_skipped":          0x808080,
	"worker_started":        0x0099ff,
	"worker_stopped":        0xff6600,
	"library_scan_complete": 0x00cc99,
	"health_check":          0x9932cc,
}

var eventIcons = map[string]string{
	"file_processed":        "✅",
	"file_processing":       "⚙️",
	"file_error":            "❌",
	"file_skipped":          "⏭️",
	"worker_started":        "🚀",
	"worker_stopped":        "⏹️",
	"library_scan_complete": "📚",
	"health_check":          "🏥",
}

const defaultColor = 0x7289da

func embedColor(event string) int {
	if c, ok := eventColors[event]; ok {
		return c
	}
	return defaultColor
}

func eventIcon(event string) string {
	if icon, ok := eventIcons[event]; ok {
		return icon
	}
	return "📁"
}

// fileName extracts the final path component, tolerating both separator
// styles since the worker may run on either platform.
func fileName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// parentDir extracts the directory immediately containing the file.
func parentDir(path string) string {
	sep := "/"
	if !strings.Contains(path, "/") {
		sep = "\\"
	}
	parts := strings.Split(path, sep)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

const (
	footerText    = "Tdarr"
	footerIconURL = "https://raw.githubusercontent.com/HaveAGitGat/Tdarr/master/images/logo.png"
)
