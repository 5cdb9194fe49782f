package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartface-server-go/internal/platform/config"
)

func newTestSkill(t *testing.T, handler http.Handler) *Skill {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.SearchConfig{BaseURL: srv.URL})
}

func wikiHandler(titles []string, summaries map[string]string, disambiguation map[string]bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		quoted := make([]string, len(titles))
		for i, t := range titles {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		fmt.Fprintf(w, `["%s",[%s],[],[]]`, r.URL.Query().Get("search"), strings.Join(quoted, ","))
	})
	mux.HandleFunc("/api/rest_v1/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimPrefix(r.URL.Path, "/api/rest_v1/page/summary/")
		if disambiguation[title] {
			fmt.Fprint(w, `{"type":"disambiguation","extract":""}`)
			return
		}
		extract, ok := summaries[title]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"type":"standard","extract":%q}`, extract)
	})
	return mux
}

func TestSearchReturnsSummary(t *testing.T) {
	s := newTestSkill(t, wikiHandler(
		[]string{"Go (programming language)"},
		map[string]string{"Go (programming language)": "Go is a statically typed language."},
		nil,
	))

	got, err := s.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got != "According to Wikipedia: Go is a statically typed language." {
		t.Fatalf("Search = %q", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := New(config.SearchConfig{})

	got, err := s.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got != "I need something to search for. What would you like to know?" {
		t.Fatalf("Search = %q", got)
	}
}

func TestSearchDisambiguation(t *testing.T) {
	s := newTestSkill(t, wikiHandler(
		[]string{"Mercury", "Mercury (planet)", "Mercury (element)", "Mercury Records"},
		nil,
		map[string]bool{"Mercury": true},
	))

	got, err := s.Search(context.Background(), "mercury")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	want := "I found multiple results for 'mercury'. Did you mean: Mercury (planet), Mercury (element), Mercury Records?"
	if got != want {
		t.Fatalf("Search = %q, want %q", got, want)
	}
}

func TestSearchSkipsMissingPages(t *testing.T) {
	s := newTestSkill(t, wikiHandler(
		[]string{"Missing Page", "Found Page"},
		map[string]string{"Found Page": "The found page summary."},
		nil,
	))

	got, err := s.Search(context.Background(), "something")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got != "According to Wikipedia: The found page summary." {
		t.Fatalf("Search = %q", got)
	}
}

func TestSearchNoResults(t *testing.T) {
	s := newTestSkill(t, wikiHandler(nil, nil, nil))

	got, err := s.Search(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !strings.Contains(got, "couldn't find detailed information about 'xyzzy'") {
		t.Fatalf("Search = %q", got)
	}
}
