// Package nutrition queries the external nutrition API for canonical
// nutrient sets. It is the only layer with retry policy: quota rejections
// are retried a bounded number of times with exponential backoff, everything
// else resolves immediately.
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nmarzin/gourmand/internal/logger"
)

// quotaErrorCode is the API error code signalling that the call quota is
// exhausted (FatSecret "Error 12").
const quotaErrorCode = 12

// ErrQuotaExhausted is returned once the bounded quota retries are used up.
var ErrQuotaExhausted = errors.New("nutrition: api quota exhausted after retries")

// APIError is a structured error payload returned by the nutrition API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nutrition api error %d: %s", e.Code, e.Message)
}

// Measurement is one normalized nutrient value.
type Measurement struct {
	Name  string
	Value float64
	Unit  string
}

// NutrientSet is the canonical nutrient extraction for one food.
type NutrientSet struct {
	PortionDescription string
	PortionAmount      string
	PortionUnit        string
	Nutrients          []Measurement
}

// nutrientUnits is the fixed allow-list of extracted nutrient keys with the
// unit the API reports them in. Keys absent from this list are dropped.
var nutrientUnits = []struct {
	Key  string
	Unit string
}{
	{"calories", "kcal"},
	{"protein", "g"},
	{"carbohydrate", "g"},
	{"fat", "g"},
	{"fiber", "g"},
	{"sugar", "g"},
	{"sodium", "mg"},
	{"potassium", "mg"},
	{"cholesterol", "mg"},
	{"iron", "mg"},
	{"calcium", "mg"},
	{"vitamin_a", "mcg"},
	{"vitamin_c", "mg"},
	{"saturated_fat", "g"},
	{"polyunsaturated_fat", "g"},
	{"monounsaturated_fat", "g"},
}

// gram conversion factors for sub-gram units.
var gramFactors = map[string]float64{
	"mg":  0.001,
	"mcg": 0.000001,
}

// Client queries a FatSecret-style nutrition API.
type Client struct {
	client      *resty.Client
	baseURL     string
	maxAttempts int
	backoff     time.Duration
}

// Config holds nutrition client configuration.
type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	// MaxAttempts bounds quota retries; Backoff is the first retry delay,
	// doubled on each subsequent attempt.
	MaxAttempts int
	Backoff     time.Duration
}

// NewClient creates a nutrition API client.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.AccessToken != "" {
		client.SetAuthToken(cfg.AccessToken)
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 5 * time.Second
	}

	return &Client{
		client:      client,
		baseURL:     cfg.BaseURL,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// Lookup searches the API for an English food name, fetches the detail
// record of the first hit and extracts its nutrient set. A nil set with a
// nil error means "not found" (no hit, no servings or nothing on the
// allow-list). ErrQuotaExhausted is terminal for the whole run.
func (c *Client) Lookup(ctx context.Context, foodName string) (*NutrientSet, error) {
	hits, err := c.search(ctx, foodName)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			logger.CtxWarn(ctx, "Nutrition search failed for %q: %v", foodName, apiErr)
			return nil, nil
		}
		return nil, err
	}
	if len(hits) == 0 || hits[0].FoodID == "" {
		logger.CtxInfo(ctx, "No nutrition record found for %q", foodName)
		return nil, nil
	}

	serving, err := c.firstServing(ctx, hits[0].FoodID)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			logger.CtxWarn(ctx, "Nutrition details failed for %q: %v", foodName, apiErr)
			return nil, nil
		}
		return nil, err
	}
	if serving == nil {
		return nil, nil
	}

	set := extractNutrients(serving)
	if len(set.Nutrients) == 0 {
		logger.CtxInfo(ctx, "No listed nutrients for %q", foodName)
		return nil, nil
	}
	return set, nil
}

type searchHit struct {
	FoodID string `json:"food_id"`
}

func (c *Client) search(ctx context.Context, foodName string) ([]searchHit, error) {
	body, err := c.call(ctx, map[string]string{
		"method":            "foods.search",
		"search_expression": foodName,
		"format":            "json",
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Foods struct {
			Food json.RawMessage `json:"food"`
		} `json:"foods"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	var hits []searchHit
	for _, raw := range objectOrArray(result.Foods.Food) {
		var hit searchHit
		if err := json.Unmarshal(raw, &hit); err == nil {
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// firstServing fetches the detail record and returns its first serving, or
// nil when the payload carries none.
func (c *Client) firstServing(ctx context.Context, foodID string) (map[string]interface{}, error) {
	body, err := c.call(ctx, map[string]string{
		"method":  "food.get.v2",
		"food_id": foodID,
		"format":  "json",
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Food struct {
			Servings struct {
				Serving json.RawMessage `json:"serving"`
			} `json:"servings"`
		} `json:"food"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode detail response: %w", err)
	}

	servings := objectOrArray(result.Food.Servings.Serving)
	if len(servings) == 0 {
		return nil, nil
	}

	var serving map[string]interface{}
	if err := json.Unmarshal(servings[0], &serving); err != nil {
		return nil, fmt.Errorf("decode serving: %w", err)
	}
	return serving, nil
}

// call performs one API request, retrying only on quota errors. The backoff
// doubles per attempt; after maxAttempts the quota error becomes terminal.
func (c *Client) call(ctx context.Context, params map[string]string) ([]byte, error) {
	delay := c.backoff
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.client.R().SetContext(ctx).SetQueryParams(params).Get(c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("nutrition request: %w", err)
		}

		var envelope struct {
			Error *APIError `json:"error"`
		}
		body := resp.Body()
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
			if envelope.Error.Code == quotaErrorCode {
				if attempt == c.maxAttempts {
					return nil, ErrQuotaExhausted
				}
				logger.CtxWarn(ctx, "Nutrition api quota hit, retrying in %s (attempt %d/%d)",
					delay, attempt, c.maxAttempts)
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				delay *= 2
				continue
			}
			return nil, envelope.Error
		}
		return body, nil
	}
	return nil, ErrQuotaExhausted
}

// extractNutrients pulls the allow-listed nutrient keys out of a serving,
// converting sub-gram units to grams and rounding to three decimals.
func extractNutrients(serving map[string]interface{}) *NutrientSet {
	set := &NutrientSet{
		PortionDescription: stringField(serving, "measurement_description"),
		PortionAmount:      stringField(serving, "metric_serving_amount"),
		PortionUnit:        stringField(serving, "metric_serving_unit"),
	}

	for _, entry := range nutrientUnits {
		raw, ok := serving[entry.Key]
		if !ok {
			continue
		}
		value, ok := floatValue(raw)
		if !ok {
			continue
		}

		unit := entry.Unit
		if factor, sub := gramFactors[unit]; sub {
			value *= factor
			unit = "g"
		}
		set.Nutrients = append(set.Nutrients, Measurement{
			Name:  entry.Key,
			Value: math.Round(value*1000) / 1000,
			Unit:  unit,
		})
	}
	return set
}

// objectOrArray normalizes a JSON field the API serves either as a single
// object or as an array of objects.
func objectOrArray(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single json.RawMessage
	if err := json.Unmarshal(raw, &single); err == nil && len(single) > 0 {
		return []json.RawMessage{single}
	}
	return nil
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "N/A"
	}
}

func floatValue(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
