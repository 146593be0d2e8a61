package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tiksave-bot/domain/media"
)

// defaultUserAgent mimics a desktop browser. Media CDNs refuse or
// throttle requests that identify as a bot.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// Fetcher downloads remote media straight to local files
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option is a functional option for configuring Fetcher
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (for timeouts and tests)
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 5 * time.Minute},
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Interface compliance check
var _ media.Fetcher = (*Fetcher)(nil)

// Fetch streams url into destPath. Response bodies are copied to disk,
// never buffered whole in memory. On any failure the partial file is
// removed: destPath is usable only when Fetch returns nil.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to close %s: %w", destPath, err)
	}

	return nil
}
