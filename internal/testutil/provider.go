package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"goodgood/internal/gg"
	"goodgood/internal/model"
)

// StubProvider is a ContentProvider that returns canned text.
type StubProvider struct {
	mu      sync.Mutex
	name    string
	model   string
	text    string
	err     error
	calls   int
	prompts []string

	clock   *StubClock
	latency time.Duration
}

var _ gg.ContentProvider = (*StubProvider)(nil)

// NewStubProvider returns a provider named "stub" that answers every call
// with text.
func NewStubProvider(text string) *StubProvider {
	return &StubProvider{name: "stub", model: "stub-1", text: text}
}

// NewFailingProvider returns a provider whose every call fails with err.
func NewFailingProvider(err error) *StubProvider {
	return &StubProvider{name: "stub", model: "stub-1", err: err}
}

// WithLatency makes every call advance clock by d before answering.
func (p *StubProvider) WithLatency(clock *StubClock, d time.Duration) *StubProvider {
	p.clock = clock
	p.latency = d
	return p
}

func (p *StubProvider) Name() string { return p.name }

func (p *StubProvider) Generate(ctx context.Context, system, prompt string) (*gg.Generation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.clock != nil {
		p.clock.Advance(p.latency)
	}
	if p.err != nil {
		return nil, p.err
	}
	return &gg.Generation{Text: p.text, Model: p.model}, nil
}

// Calls returns how many times Generate was called.
func (p *StubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Prompts returns the user prompts received, in order.
func (p *StubProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// Translations returns one greeting per required language.
func Translations() map[string]string {
	greetings := map[string]string{
		"en": "Have a good day", "es": "Que tengas un buen día", "fr": "Bonne journée",
		"de": "Einen schönen Tag", "it": "Buona giornata", "pt": "Tenha um bom dia",
		"ru": "Хорошего дня", "zh": "祝你有美好的一天", "ja": "良い一日を",
		"ko": "좋은 하루 보내세요", "ar": "أتمنى لك يوما سعيدا", "hi": "आपका दिन शुभ हो",
		"bn": "শুভ দিন", "vi": "Chúc một ngày tốt lành", "th": "ขอให้มีวันที่ดี",
		"tr": "İyi günler", "nl": "Fijne dag", "sv": "Ha en bra dag",
		"id": "Semoga harimu menyenangkan", "pl": "Miłego dnia",
	}
	out := make(map[string]string, len(model.Languages))
	for _, l := range model.Languages {
		out[l.Code] = greetings[l.Code]
	}
	return out
}

// ProviderText returns provider output wrapping a conformant payload in a
// fenced json block with surrounding prose. Codes listed in omit are left
// out of the translations.
func ProviderText(omit ...string) string {
	translations := Translations()
	for _, code := range omit {
		delete(translations, code)
	}
	payload := map[string]any{
		"message":      "Have a good day",
		"translations": translations,
		"theme":        map[string]string{"bg": "#0B1021", "fg": "#F5F5F5", "accent": "#FFB000"},
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("Here is today's message:\n\n```json\n%s\n```\n\nEnjoy!", data)
}
