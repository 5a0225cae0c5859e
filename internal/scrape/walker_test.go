package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/fetch"
)

func TestWalkCollectsRecipesAndSkipsBrokenCards(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	detail := func(title string) string {
		return fmt.Sprintf(`<html><body><div class="main-title"><h1>%s</h1></div></body></html>`, title)
	}

	mux.HandleFunc("/recette/tarte", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detail("Tarte"))
	})
	mux.HandleFunc("/recette/gratin", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detail("Gratin"))
	})
	mux.HandleFunc("/recette/cassee", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/selection", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("p") {
		case "1":
			fmt.Fprintf(w, `<html><body>
			<div class="recipe-card"><a class="recipe-card-link" href="%s/recette/tarte">x</a></div>
			<div class="recipe-card"><a class="recipe-card-link" href="%s/recette/cassee">x</a></div>
			</body></html>`, srv.URL, srv.URL)
		case "2":
			fmt.Fprintf(w, `<html><body>
			<div class="recipe-card"><a class="recipe-card-link" href="%s/recette/gratin">x</a></div>
			<div class="recipe-card"><span>no link</span></div>
			</body></html>`, srv.URL)
		default:
			fmt.Fprint(w, `<html><body></body></html>`)
		}
	})

	fetcher := fetch.NewFetcher(&fetch.Config{Timeout: 5 * time.Second})
	walker := NewWalker(fetcher, 3)

	var titles []string
	err := walker.Walk(context.Background(), "Vegan", srv.URL+"/selection?p=", func(r domain.Recipe) error {
		titles = append(titles, r.Title)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	// The broken card is skipped, not fatal; the card without a link is ignored.
	want := []string{"Tarte", "Gratin"}
	if len(titles) != len(want) {
		t.Fatalf("got %d recipes (%v), want %d", len(titles), titles, len(want))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("recipe %d = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestWalkFailedListingAbortsCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	walker := NewWalker(fetch.NewFetcher(nil), 3)
	err := walker.Walk(context.Background(), "Vegan", srv.URL+"/selection?p=", func(domain.Recipe) error {
		t.Fatal("yield should not be called")
		return nil
	})
	if err == nil {
		t.Fatal("expected an error for a failed listing page")
	}
}

func TestWalkStopsWhenYieldFails(t *testing.T) {
	var baseURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/selection" {
			fmt.Fprintf(w, `<html><body><div class="recipe-card"><a class="recipe-card-link" href="%s/r">x</a></div></body></html>`,
				baseURL)
			return
		}
		fmt.Fprint(w, `<html><body><div class="main-title"><h1>R</h1></div></body></html>`)
	}))
	defer srv.Close()
	baseURL = srv.URL

	walker := NewWalker(fetch.NewFetcher(nil), 3)
	sentinel := fmt.Errorf("stop")
	calls := 0
	err := walker.Walk(context.Background(), "Vegan", srv.URL+"/selection?p=", func(domain.Recipe) error {
		calls++
		return sentinel
	})
	if err == nil {
		t.Fatal("expected yield error to propagate")
	}
	if calls != 1 {
		t.Errorf("yield called %d times, want 1", calls)
	}
}
