package wikidata

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nmarzin/gourmand/internal/ingest"
)

const sparqlBody = `{"results":{"bindings":[
	{"sandwichLabel":{"value":"BLT"},"ingredientLabel":{"value":"bacon"}},
	{"sandwichLabel":{"value":"BLT"},"ingredientLabel":{"value":"lettuce"}},
	{"sandwichLabel":{"value":"Croque-monsieur"},"ingredientLabel":{"value":"ham"}},
	{"sandwichLabel":{"value":""},"ingredientLabel":{"value":"ghost"}}
]}}`

func TestFetchSandwichIngredients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("query"))
		require.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sparqlBody)
	}))
	defer srv.Close()

	client := NewClient(&Config{Endpoint: srv.URL, UserAgent: "test-agent"})
	pairs, err := client.FetchSandwichIngredients(context.Background())
	require.NoError(t, err)

	// The unlabelled binding is dropped.
	require.Equal(t, []Pair{
		{Sandwich: "BLT", Ingredient: "bacon"},
		{Sandwich: "BLT", Ingredient: "lettuce"},
		{Sandwich: "Croque-monsieur", Ingredient: "ham"},
	}, pairs)
}

func TestFetchSandwichIngredientsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(&Config{Endpoint: srv.URL})
	_, err := client.FetchSandwichIngredients(context.Background())
	require.Error(t, err)
}

func TestWriteCSVRoundTripsThroughFold(t *testing.T) {
	pairs := []Pair{
		{Sandwich: "BLT", Ingredient: "bacon"},
		{Sandwich: "BLT", Ingredient: "lettuce"},
		{Sandwich: "Club", Ingredient: "turkey"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, pairs))

	set, err := ingest.FoldSandwichCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, []string{"BLT", "Club"}, set.Labels)
	require.Equal(t, []string{"bacon", "lettuce"}, set.Ingredients["BLT"])
}
