package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testOMDBClient(srv *httptest.Server) *OMDBClient {
	c := NewOMDBClient("test-key")
	c.httpClient = srv.Client()
	c.baseURL = srv.URL
	return c
}

func testWatchmodeClient(srv *httptest.Server) *WatchmodeClient {
	c := NewWatchmodeClient("test-key")
	c.httpClient = srv.Client()
	c.baseURL = srv.URL
	return c
}

func TestOMDBLookupMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("missing api key in request: %s", r.URL.RawQuery)
		}
		if got := r.URL.Query().Get("t"); got != "Inception" {
			t.Errorf("unexpected title param %q", got)
		}
		w.Write([]byte(`{"Response":"True","Title":"Inception","Year":"2010","Plot":"A thief...","Poster":"https://img.example/p.jpg","imdbID":"tt1375666","imdbRating":"8.8"}`))
	}))
	defer srv.Close()

	meta := testOMDBClient(srv).LookupMetadata(context.Background(), "Inception")
	if meta == nil {
		t.Fatal("expected metadata, got nil")
	}
	if meta.IMDBID != "tt1375666" || meta.Name != "Inception" || meta.Rating != "8.8" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.PosterURL != "https://img.example/p.jpg" {
		t.Errorf("unexpected poster: %q", meta.PosterURL)
	}
}

func TestOMDBLookupMetadata_NAPosterDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"True","Title":"Obscure Film","Poster":"N/A"}`))
	}))
	defer srv.Close()

	meta := testOMDBClient(srv).LookupMetadata(context.Background(), "Obscure Film")
	if meta == nil {
		t.Fatal("expected metadata, got nil")
	}
	if meta.PosterURL != "" {
		t.Errorf("N/A poster should be dropped, got %q", meta.PosterURL)
	}
}

func TestOMDBLookupMetadata_FailsSoft(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		}))
		defer srv.Close()
		if meta := testOMDBClient(srv).LookupMetadata(context.Background(), "zzz"); meta != nil {
			t.Errorf("expected nil for no-match response, got %+v", meta)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		if meta := testOMDBClient(srv).LookupMetadata(context.Background(), "x"); meta != nil {
			t.Error("expected nil on 500")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		c := NewOMDBClient("")
		if meta := c.LookupMetadata(context.Background(), "x"); meta != nil {
			t.Error("expected nil when no api key is configured")
		}
	})
}

func TestWatchmodeSearchTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("search_field"); got != "name" {
			t.Errorf("unexpected search_field %q", got)
		}
		w.Write([]byte(`{"title_results":[{"id":1234,"name":"Inception","year":2010,"imdb_id":"tt1375666","type":"movie"}]}`))
	}))
	defer srv.Close()

	got := testWatchmodeClient(srv).SearchTitles(context.Background(), "Inception")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ID != 1234 || got[0].IMDBID != "tt1375666" || got[0].Year != 2010 {
		t.Errorf("unexpected candidate: %+v", got[0])
	}
}

func TestWatchmodeAutocomplete_TitlesOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_type"); got != "2" {
			t.Errorf("autocomplete must restrict to titles, got search_type %q", got)
		}
		w.Write([]byte(`{"results":[{"id":7,"name":"Batman"}]}`))
	}))
	defer srv.Close()

	got := testWatchmodeClient(srv).Autocomplete(context.Background(), "Bat")
	if len(got) != 1 || got[0].Name != "Batman" {
		t.Errorf("unexpected suggestions: %+v", got)
	}
}

func TestWatchmodeTitleSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/title/1234/sources/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[{"source_id":203,"name":"Netflix","type":"sub","region":"US","web_url":"https://netflix.example/title"}]`))
	}))
	defer srv.Close()

	got := testWatchmodeClient(srv).TitleSources(context.Background(), 1234)
	if len(got) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(got))
	}
	if got[0].PlatformID != 203 || got[0].Type != "sub" {
		t.Errorf("unexpected offer: %+v", got[0])
	}
}

func TestWatchmodeLookups_FailSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := testWatchmodeClient(srv)

	if got := c.SearchTitles(context.Background(), "x"); got != nil {
		t.Error("SearchTitles should fail soft to nil")
	}
	if got := c.Autocomplete(context.Background(), "x"); got != nil {
		t.Error("Autocomplete should fail soft to nil")
	}
	if got := c.TitleSources(context.Background(), 1); got != nil {
		t.Error("TitleSources should fail soft to nil")
	}
}

func TestWatchmodeAllSources_SurfacesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := testWatchmodeClient(srv).AllSources(context.Background()); err == nil {
		t.Fatal("AllSources must surface upstream failures")
	}

	c := NewWatchmodeClient("")
	if _, err := c.AllSources(context.Background()); err == nil {
		t.Fatal("AllSources must fail without an api key")
	}
}
