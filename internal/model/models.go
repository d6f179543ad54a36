package model

import (
	"fmt"
	"time"
)

// DateLayout is the layout of the date key shared by records, the index and
// the latest pointer. Lexicographic order of keys equals chronological order.
const DateLayout = "2006-01-02"

// Theme holds the three named colors of a day, each "#RRGGBB".
type Theme struct {
	Bg     string `json:"bg"`
	Fg     string `json:"fg"`
	Accent string `json:"accent"`
}

// Meta describes how a record was produced.
type Meta struct {
	Model          string   `json:"model"`            // "<provider>/<model>"
	GeneratedAtUTC string   `json:"generated_at_utc"` // RFC 3339
	Languages      []string `json:"languages"`
}

// DailyRecord is the immutable per-date content artifact.
type DailyRecord struct {
	Date         string            `json:"date"`
	Message      string            `json:"message"`
	Translations map[string]string `json:"translations"`
	Theme        Theme             `json:"theme"`
	Meta         Meta              `json:"meta"`
}

// Translation returns the message for the given language code, falling back
// to English and then to the untranslated message. The returned code is the
// language that was actually used.
func (r *DailyRecord) Translation(code string) (string, string) {
	if s := r.Translations[code]; s != "" {
		return s, code
	}
	if s := r.Translations["en"]; s != "" {
		return s, "en"
	}
	return r.Message, "en"
}

// DateIndex is the sorted, deduplicated list of all dates with a record.
type DateIndex struct {
	Dates []string `json:"dates"`
}

// Contains reports whether date is present in the index.
func (i *DateIndex) Contains(date string) bool {
	for _, d := range i.Dates {
		if d == date {
			return true
		}
	}
	return false
}

// LatestPointer names the most recently produced date.
type LatestPointer struct {
	Date string `json:"date"`
}

// ParseDate parses a date key. Only the canonical zero-padded form is accepted,
// so the result can be used safely as a file name.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q: not in %s form", s, DateLayout)
	}
	return t, nil
}

// FormatDate returns the date key for t in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Run is one recorded invocation of the generation pipeline.
type Run struct {
	ID         int64
	RunID      string // UUID
	Date       string
	Provider   string
	Model      string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Detail     string
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusGenerated = "generated"
	RunStatusFailed    = "failed"
)
