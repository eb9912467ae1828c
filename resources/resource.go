// Package resources maps persisted entities to their public JSON shapes.
// Transformers are pure functions over already-loaded models: relation keys
// appear only when the relation was preloaded, *_path fields are paired with
// a derived *_url, and derived labels are computed here, never persisted.
package resources

import (
	"fmt"
	"time"

	"github.com/kartlink/kartlink-api/services"
)

// fileURL derives a public URL for a stored relative path. Null when the path
// is empty so clients can distinguish "no file" from "file without URL".
func fileURL(path string) interface{} {
	if path == "" {
		return nil
	}
	storage := services.GetFileStorage()
	if storage == nil {
		return nil
	}
	return storage.URL(path)
}

// humanizeSince renders a "N days ago" style label.
func humanizeSince(t time.Time) string {
	days := int(time.Since(t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// readingTimeLabel renders the stored minute estimate as "N min read".
func readingTimeLabel(minutes int) string {
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
