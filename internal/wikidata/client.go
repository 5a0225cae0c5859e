// Package wikidata collects the flat (sandwich, ingredient) relation from
// the public Wikidata SPARQL endpoint and renders it as the two-column CSV
// consumed by the sandwich import pipeline.
package wikidata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// sandwichQuery lists sandwiches with their ingredients, excluding
// ingredients that are themselves sandwiches, labelled in English with a
// French fallback.
const sandwichQuery = `SELECT ?sandwich ?ingredient ?sandwichLabel ?ingredientLabel
WHERE
{
  ?sandwich wdt:P31?/wdt:P279* wd:Q28803;
            wdt:P527 ?ingredient.
  MINUS { ?ingredient wdt:P279* wd:Q7802. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en", "fr". }
}
ORDER BY UCASE(STR(?sandwichLabel))`

// Pair is one (sandwich, ingredient) row of the relation.
type Pair struct {
	Sandwich   string
	Ingredient string
}

// Client queries the Wikidata SPARQL endpoint.
type Client struct {
	client   *resty.Client
	endpoint string
}

// Config holds Wikidata client configuration.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a SPARQL client. Wikidata requires a descriptive
// User-Agent for automated queries.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{client: client, endpoint: cfg.Endpoint}
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// FetchSandwichIngredients runs the sandwich query and returns the label
// pairs in result order.
func (c *Client) FetchSandwichIngredients(ctx context.Context) ([]Pair, error) {
	var result sparqlResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":  sandwichQuery,
			"format": "json",
		}).
		SetResult(&result).
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("sparql query: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sparql query: status %d", resp.StatusCode())
	}

	pairs := make([]Pair, 0, len(result.Results.Bindings))
	for _, binding := range result.Results.Bindings {
		sandwich := binding["sandwichLabel"].Value
		ingredient := binding["ingredientLabel"].Value
		if sandwich == "" || ingredient == "" {
			continue
		}
		pairs = append(pairs, Pair{Sandwich: sandwich, Ingredient: ingredient})
	}
	return pairs, nil
}

// WriteCSV renders the pairs as the sandwich CSV, header included.
func WriteCSV(w io.Writer, pairs []Pair) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Sandwich Label", "Ingredient Label"}); err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := writer.Write([]string{pair.Sandwich, pair.Ingredient}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
