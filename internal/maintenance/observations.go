package maintenance

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ukydev/municipal-assets/internal/models"
)

// [timestamp] Status: description, where the description runs until the next
// opening bracket or the end of the text.
var observationPattern = regexp.MustCompile(`\[([^\[\]]+)\]\s*([^:\[\]]+?)\s*:\s*([^\[]*)`)

// Timestamps found in observation histories are written by several clients.
var observationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2/1/2006, 15:04:05",
	"2/1/2006 15:04:05",
	"2006-01-02",
}

// ParseObservationHistory extracts the bracketed entries of an observations
// field, oldest first. Text that does not follow the entry shape is skipped.
// It returns nil when there is no entry at all.
func ParseObservationHistory(text string) []models.ObservationEntry {
	matches := observationPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	entries := make([]models.ObservationEntry, 0, len(matches))
	for _, m := range matches {
		raw := strings.TrimSpace(m[1])
		entries = append(entries, models.ObservationEntry{
			Timestamp:   raw,
			At:          parseObservationTime(raw),
			Status:      strings.TrimSpace(m[2]),
			Description: strings.TrimSpace(m[3]),
		})
	}

	// Entries with an unreadable timestamp keep their relative order after
	// the dated ones.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].At, entries[j].At
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.Before(b)
		}
	})
	return entries
}

func parseObservationTime(s string) time.Time {
	for _, layout := range observationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
