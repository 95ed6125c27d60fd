// internal/translate/translate.go
package translate

// Translator resolves upstream constants (status codes, event names) to
// human-readable labels. Lookups that miss any level of the map fall back to
// the key itself, so rendering never fails on an unknown constant.
type Translator struct {
	table map[string]map[string]map[string]string
}

func New() *Translator {
	return &Translator{table: defaultTable}
}

// Translate returns the label for (api, category, key), or key when missing.
func (t *Translator) Translate(api, category, key string) string {
	if byCategory, ok := t.table[api]; ok {
		if byKey, ok := byCategory[category]; ok {
			if label, ok := byKey[key]; ok {
				return label
			}
		}
	}
	return key
}

var defaultTable = map[string]map[string]map[string]string{
	"overseerr": {
		"media_request_status": {
			"0": "Unknown",
			"1": "Pending approval",
			"2": "Approved",
			"3": "Declined",
		},
		"media_info_status": {
			"1": "Unknown",
			"2": "Pending",
			"3": "Processing",
			"4": "Partially available",
			"5": "Available",
		},
		"media_status": {
			"PENDING":   "Pending",
			"AVAILABLE": "Available",
		},
		"event": {
			"Movie Request Now Available":            "Movie request now available",
			"Series Request Now Available":           "Series request now available",
			"Movie Request Automatically Approved":   "Movie request automatically approved",
			"Series Request Automatically Approved":  "Series request automatically approved",
		},
	},
	"radarr": {
		"quality": {
			"HD-1080p": "High Definition (1080p)",
			"HD-720p":  "High Definition (720p)",
			"SD":       "Standard Definition",
		},
	},
	"sonarr": {
		"status": {
			"continuing": "Series is continuing",
			"ended":      "Series has ended",
		},
	},
	"tdarr": {
		"event": {
			"file_processed":        "File processed",
			"file_processing":       "File processing",
			"file_error":            "Processing error",
			"file_skipped":          "File skipped",
			"worker_started":        "Worker started",
			"worker_stopped":        "Worker stopped",
			"library_scan_complete": "Library scan complete",
			"health_check":          "Health check",
		},
	},
}
