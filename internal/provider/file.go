package provider

import (
	"context"
	"fmt"
	"os"

	"goodgood/internal/gg"
)

const fileName = "file"

// File returns the contents of a fixture file as provider output. It makes
// dry runs possible without network access.
type File struct {
	path string
}

var _ gg.ContentProvider = (*File)(nil)

// NewFile creates a File provider reading path on every call.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, &gg.ProviderError{Provider: fileName, Err: fmt.Errorf("fixture_path is required")}
	}
	return &File{path: path}, nil
}

func (p *File) Name() string { return fileName }

func (p *File) Generate(ctx context.Context, system, prompt string) (*gg.Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, &gg.ProviderError{Provider: fileName, Err: err}
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, &gg.ProviderError{Provider: fileName, Err: fmt.Errorf("reading fixture: %w", err)}
	}
	return &gg.Generation{Text: string(data), Model: "fixture"}, nil
}
