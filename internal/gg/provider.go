package gg

import (
	"context"
	"fmt"
)

// Generation is the raw output of a ContentProvider.
// Text is untrusted and may contain prose around the JSON payload.
type Generation struct {
	Text  string
	Model string
}

// ContentProvider produces raw text for the daily record from a prompt.
// One implementation exists per backend; the backend is chosen once from config.
type ContentProvider interface {
	// Name identifies the backend, e.g. "openai". It prefixes meta.model.
	Name() string

	// Generate sends the system instruction and prompt to the backend.
	Generate(ctx context.Context, system, prompt string) (*Generation, error)
}

// ProviderError reports that the upstream call failed or returned unusable data.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
