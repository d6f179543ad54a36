package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"goodgood/internal/model"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// themeColors are the keys a theme must define, in report order.
var themeColors = []string{"bg", "fg", "accent"}

// Violation is a single schema defect.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string { return v.Message }

// ValidationError carries the complete set of violations found in one pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("schema validation failed (%d violations): %s", len(e.Violations), strings.Join(msgs, "; "))
}

// Validate checks obj against the daily record schema. Every check runs
// regardless of earlier failures, so the result is the full diagnostic set.
// An empty result means obj is conformant.
func Validate(obj map[string]any) []Violation {
	var out []Violation
	add := func(field, format string, args ...any) {
		out = append(out, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !nonEmptyString(obj["date"]) {
		add("date", "Missing 'date'")
	}
	if !nonEmptyString(obj["message"]) {
		add("message", "Missing 'message'")
	}

	if translations, ok := obj["translations"].(map[string]any); !ok {
		add("translations", "Missing or invalid 'translations' object")
	} else {
		for _, code := range model.LanguageCodes() {
			if !nonEmptyString(translations[code]) {
				add("translations."+code, "Missing translation for '%s'", code)
			}
		}
	}

	if theme, ok := obj["theme"].(map[string]any); !ok {
		add("theme", "Missing or invalid 'theme' object")
	} else {
		for _, color := range themeColors {
			v, present := theme[color]
			if !present || v == nil || v == "" {
				add("theme."+color, "Missing theme color '%s'", color)
				continue
			}
			s, isString := v.(string)
			if !isString || !hexColor.MatchString(s) {
				add("theme."+color, "Invalid hex color for '%s': %v", color, v)
			}
		}
	}

	if meta, ok := obj["meta"].(map[string]any); !ok {
		add("meta", "Missing 'meta' object")
	} else {
		if !nonEmptyString(meta["model"]) {
			add("meta.model", "Missing 'meta.model'")
		}
		if !nonEmptyString(meta["generated_at_utc"]) {
			add("meta.generated_at_utc", "Missing 'meta.generated_at_utc'")
		}
	}

	return out
}

// Decode converts a validated object into a typed record. Fields outside the
// schema are dropped.
func Decode(obj map[string]any) (*model.DailyRecord, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var rec model.DailyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &rec, nil
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}
