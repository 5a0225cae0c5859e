package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{BaseURL: srv.URL})
}

func TestTranslate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Source != "fr" || req.Target != "en" {
			t.Errorf("languages = %s->%s", req.Source, req.Target)
		}
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "apple"})
	})

	got, err := client.Translate(context.Background(), "pomme", "fr", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "apple" {
		t.Errorf("got %q, want %q", got, "apple")
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://unused.invalid"})
	_, err := client.Translate(context.Background(), "   ", "fr", "en")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("got %v, want ErrEmptyInput", err)
	}
}

func TestTranslateServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(translateResponse{Error: "upstream unavailable"})
	})
	if _, err := client.Translate(context.Background(), "pomme", "fr", "en"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTranslateEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "  "})
	})
	if _, err := client.Translate(context.Background(), "pomme", "fr", "en"); err == nil {
		t.Fatal("expected an error for an empty translation")
	}
}
