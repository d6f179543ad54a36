package model

import "sort"

// Language is one of the fixed set of languages every record is translated into.
type Language struct {
	Code string
	Name string // native display name
}

// Languages is the canonical, ordered list of required translations. The
// validator, the provider prompt and the CLI presentation all read it from here.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Español"},
	{Code: "fr", Name: "Français"},
	{Code: "de", Name: "Deutsch"},
	{Code: "it", Name: "Italiano"},
	{Code: "pt", Name: "Português"},
	{Code: "ru", Name: "Русский"},
	{Code: "zh", Name: "中文"},
	{Code: "ja", Name: "日本語"},
	{Code: "ko", Name: "한국어"},
	{Code: "ar", Name: "العربية"},
	{Code: "hi", Name: "हिन्दी"},
	{Code: "bn", Name: "বাংলা"},
	{Code: "vi", Name: "Tiếng Việt"},
	{Code: "th", Name: "ไทย"},
	{Code: "tr", Name: "Türkçe"},
	{Code: "nl", Name: "Nederlands"},
	{Code: "sv", Name: "Svenska"},
	{Code: "id", Name: "Bahasa Indonesia"},
	{Code: "pl", Name: "Polski"},
}

// LanguageCodes returns the required language codes in canonical order.
func LanguageCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}

// LanguageName returns the display name for code.
func LanguageName(code string) (string, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name, true
		}
	}
	return "", false
}

// OrderLanguages orders the given translation codes: required languages
// first in canonical order, then any extra codes sorted. Duplicates are dropped.
func OrderLanguages(codes []string) []string {
	present := make(map[string]bool, len(codes))
	for _, c := range codes {
		present[c] = true
	}
	out := make([]string, 0, len(present))
	for _, l := range Languages {
		if present[l.Code] {
			out = append(out, l.Code)
			delete(present, l.Code)
		}
	}
	extras := make([]string, 0, len(present))
	for c := range present {
		extras = append(extras, c)
	}
	sort.Strings(extras)
	return append(out, extras...)
}
