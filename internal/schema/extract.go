// Package schema turns untrusted provider text into a validated daily record.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// fencedJSON matches a ```json fenced block and captures its interior.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ErrNoJSON is the cause of an ExtractionError when the text has no braces.
var ErrNoJSON = errors.New("no JSON object found in text")

// ExtractionError reports that no parseable JSON object could be located.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extracting JSON: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extracting JSON: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract locates and parses the JSON object embedded in text.
// A ```json fenced block is preferred. Without one, or when the fenced block
// does not parse, the span from the first '{' to the last '}' is parsed.
// It returns the complete parsed object or an *ExtractionError.
func Extract(text string) (map[string]any, error) {
	var fenceErr error
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		obj, err := parseObject(m[1])
		if err == nil {
			return obj, nil
		}
		fenceErr = err
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last < first {
		if fenceErr != nil {
			return nil, &ExtractionError{Reason: "fenced block is not valid JSON", Err: fenceErr}
		}
		return nil, &ExtractionError{Reason: "no fenced block or braces", Err: ErrNoJSON}
	}

	obj, err := parseObject(text[first : last+1])
	if err != nil {
		return nil, &ExtractionError{Reason: "brace span is not valid JSON", Err: errors.Join(fenceErr, err)}
	}
	return obj, nil
}

func parseObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("JSON value is not an object")
	}
	return obj, nil
}
