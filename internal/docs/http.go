package docs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// StatusError is a non-2xx response from a document fetch. It carries the
// status code so callers can distinguish transient upstream failures from
// missing or forbidden documents.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Code)
}

// HTTPFetcher retrieves a document over plain HTTP(S).
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", ref, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: ref, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ref, err)
	}
	return string(body), nil
}

// FileFetcher reads a document from the local filesystem.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	b, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", ref, err)
	}
	return string(b), nil
}
