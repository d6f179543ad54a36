package model

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2026-02-01"},
		{in: "1999-12-31"},
		{in: "2026-2-1", wantErr: true},
		{in: "2026-02-30", wantErr: true},
		{in: "../../etc", wantErr: true},
		{in: "", wantErr: true},
		{in: "2026-02-01.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestFormatDate_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 2, 2, 5, 0, 0, 0, loc) // 2026-02-01T19:00Z

	if got := FormatDate(ts); got != "2026-02-01" {
		t.Errorf("FormatDate() = %q, want 2026-02-01", got)
	}
}

func TestDailyRecord_Translation(t *testing.T) {
	rec := &DailyRecord{
		Message:      "Hello",
		Translations: map[string]string{"en": "Hello there", "fr": "Bonjour"},
	}

	tests := []struct {
		code     string
		wantText string
		wantCode string
	}{
		{code: "fr", wantText: "Bonjour", wantCode: "fr"},
		{code: "de", wantText: "Hello there", wantCode: "en"},
		{code: "", wantText: "Hello there", wantCode: "en"},
	}
	for _, tt := range tests {
		text, code := rec.Translation(tt.code)
		if text != tt.wantText || code != tt.wantCode {
			t.Errorf("Translation(%q) = %q, %q; want %q, %q", tt.code, text, code, tt.wantText, tt.wantCode)
		}
	}

	empty := &DailyRecord{Message: "fallback"}
	if text, _ := empty.Translation("fr"); text != "fallback" {
		t.Errorf("Translation() on empty translations = %q, want fallback", text)
	}
}

func TestDateIndex_Contains(t *testing.T) {
	idx := &DateIndex{Dates: []string{"2026-01-01", "2026-01-02"}}
	if !idx.Contains("2026-01-02") {
		t.Error("Contains(2026-01-02) = false, want true")
	}
	if idx.Contains("2026-01-03") {
		t.Error("Contains(2026-01-03) = true, want false")
	}
}
