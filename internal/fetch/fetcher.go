// Package fetch retrieves external pages and parses them into traversable
// HTML trees. It isolates network and parsing failures behind FetchError;
// retry policy belongs to callers.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// FetchError reports a failed page retrieval. StatusCode is zero for
// transport-level failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher performs HTTP GETs against external pages.
type Fetcher struct {
	client *resty.Client
}

// Config holds fetcher configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// NewFetcher creates a Fetcher with the given configuration.
func NewFetcher(cfg *Config) *Fetcher {
	client := resty.New()
	if cfg != nil {
		if cfg.Timeout > 0 {
			client.SetTimeout(cfg.Timeout)
		}
		if cfg.UserAgent != "" {
			client.SetHeader("User-Agent", cfg.UserAgent)
		}
	}
	return &Fetcher{client: client}
}

// GetDocument issues a GET against url and parses the response body as an
// HTML document. Non-2xx statuses and transport failures return a
// *FetchError. No retry happens at this layer.
func (f *Fetcher) GetDocument(ctx context.Context, url string) (*html.Node, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	doc, err := html.Parse(strings.NewReader(resp.String()))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("parse html: %w", err)}
	}
	return doc, nil
}
