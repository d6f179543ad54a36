package schema

import (
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantFoo string
	}{
		{
			name:    "fenced block",
			text:    "Here is the JSON:\n```json\n{\"foo\":\"bar\"}\n```",
			wantFoo: "bar",
		},
		{
			name:    "bare object inside prose",
			text:    `Some text {"foo":"bar"} more text`,
			wantFoo: "bar",
		},
		{
			name:    "fenced block preferred over surrounding braces",
			text:    "{not json} ```json\n{\"foo\":\"fenced\"}\n``` {also not}",
			wantFoo: "fenced",
		},
		{
			name:    "invalid fenced block falls back to brace span",
			text:    "```json\nnot json\n``` {\"foo\":\"braces\"}",
			wantFoo: "braces",
		},
		{
			name:    "nested objects use outermost braces",
			text:    `prefix {"foo":"bar","theme":{"bg":"#000000"}} suffix`,
			wantFoo: "bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Extract(tt.text)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got := obj["foo"]; got != tt.wantFoo {
				t.Errorf("obj[foo] = %v, want %q", got, tt.wantFoo)
			}
		})
	}
}

func TestExtract_ReturnsExactlyFencedInterior(t *testing.T) {
	text := "intro\n```json\n{\"a\":\"1\",\"b\":\"2\"}\n```\noutro {\"c\":\"3\"}"

	obj, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(obj) != 2 {
		t.Fatalf("len(obj) = %d, want 2: %v", len(obj), obj)
	}
	if obj["a"] != "1" || obj["b"] != "2" {
		t.Errorf("obj = %v, want a=1 b=2", obj)
	}
	if _, ok := obj["c"]; ok {
		t.Error("obj contains key from outside the fenced block")
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantNoObj bool
	}{
		{name: "no braces at all", text: "just some words", wantNoObj: true},
		{name: "empty text", text: "", wantNoObj: true},
		{name: "braces but invalid JSON", text: "{ this is not json }"},
		{name: "closing brace before opening", text: "} oops {"},
		{name: "fenced and brace span both invalid", text: "```json\n{bad\n```"},
		{name: "unterminated object", text: `{"x":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Extract(tt.text)
			if err == nil {
				t.Fatalf("Extract() = %v, want error", obj)
			}
			var extractErr *ExtractionError
			if !errors.As(err, &extractErr) {
				t.Fatalf("error = %T, want *ExtractionError", err)
			}
			if tt.wantNoObj && !errors.Is(err, ErrNoJSON) {
				t.Errorf("error = %v, want ErrNoJSON cause", err)
			}
		})
	}
}

func TestExtract_NullIsNotAnObject(t *testing.T) {
	if _, err := parseObject("null"); err == nil {
		t.Error("parseObject(null) succeeded, want error")
	}
	if _, err := parseObject(`["a"]`); err == nil {
		t.Error("parseObject(array) succeeded, want error")
	}
}
