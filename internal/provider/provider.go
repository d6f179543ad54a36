// Package provider implements gg.ContentProvider backends.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"goodgood/internal/gg"
)

const (
	// maxErrorBody caps how much of a non-2xx response body is kept in the error.
	maxErrorBody = 1024
	// maxResponseBody caps a 2xx response. A daily record is a few KiB.
	maxResponseBody = 4 << 20
)

// apiClient is the HTTP plumbing shared by the hosted backends.
type apiClient struct {
	name    string
	baseURL string
	client  *http.Client
}

func newAPIClient(name, baseURL, defaultBaseURL string, timeout time.Duration) apiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return apiClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c apiClient) fail(format string, args ...any) error {
	return &gg.ProviderError{Provider: c.name, Err: fmt.Errorf(format, args...)}
}

// post sends body as JSON to baseURL+path and decodes a 2xx response into out.
func (c apiClient) post(ctx context.Context, path string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return c.fail("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return c.fail("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.fail("calling API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.fail("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return c.fail("reading response: %w", err)
	}
	if len(b) > maxResponseBody {
		return c.fail("response exceeds %d bytes", maxResponseBody)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return c.fail("decoding response: %w", err)
	}
	return nil
}

func missingKey(name, env string) error {
	return &gg.ProviderError{Provider: name, Err: fmt.Errorf("API key is missing: set %s or provider.api_key", env)}
}
