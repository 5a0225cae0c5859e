// Package translate maps food and ingredient names between languages. The
// translated English name is the join key into the nutrition API and the
// relational food table.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrEmptyInput is returned when there is nothing to translate.
var ErrEmptyInput = errors.New("translate: empty input")

// Client calls a LibreTranslate-compatible translation endpoint. Callers must
// treat any failure as "skip this item", never as fatal.
type Client struct {
	client  *resty.Client
	baseURL string
}

// Config holds translation client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a translation client.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.APIKey != "" {
		client.SetQueryParam("api_key", cfg.APIKey)
	}
	return &Client{client: client, baseURL: strings.TrimRight(cfg.BaseURL, "/")}
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// Translate translates text from src to dst ("fr" -> "en" on the enrichment
// path). Empty input, service errors and empty results are all errors.
func (c *Client) Translate(ctx context.Context, text, src, dst string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	var result translateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(translateRequest{Query: text, Source: src, Target: dst, Format: "text"}).
		SetResult(&result).
		SetError(&result).
		Post(c.baseURL + "/translate")
	if err != nil {
		return "", fmt.Errorf("translate %q: %w", text, err)
	}
	if resp.IsError() || result.Error != "" {
		return "", fmt.Errorf("translate %q: status %d: %s", text, resp.StatusCode(), result.Error)
	}

	translated := strings.TrimSpace(result.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("translate %q: empty result", text)
	}
	return translated, nil
}
