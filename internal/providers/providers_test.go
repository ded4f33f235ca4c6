// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/moodchat/internal/metrics"
	"github.com/tomtom215/moodchat/internal/recommend"
)

func testOptions() Options {
	return Options{Timeout: 5 * time.Second}
}

// recorded holds a value written by a test server handler.
type recorded struct {
	mu sync.Mutex
	v  map[string]string
}

func (r *recorded) set(k, v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.v == nil {
		r.v = make(map[string]string)
	}
	r.v[k] = v
}

func (r *recorded) get(k string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.v[k]
}

func TestMoviesSearch(t *testing.T) {
	t.Parallel()

	var rec recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			http.NotFound(w, r)
			return
		}
		rec.set("q", r.URL.Query().Get("q"))
		rec.set("key", r.Header.Get("x-rapidapi-key"))
		rec.set("host", r.Header.Get("x-rapidapi-host"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"movies":[{"title":"Amelie"},{"year":2001},{"title":"Paddington 2"}]}`))
	}))
	defer srv.Close()

	m := NewMovies(MoviesConfig{BaseURL: srv.URL + "/", Host: "movies.example", APIKey: "k-123"}, testOptions())
	got, err := m.Search(context.Background(), "joy")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"Amelie", "Unknown Title", "Paddington 2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search() = %v, want %v", got, want)
	}
	if q := rec.get("q"); q != "movies related to feeling joy" {
		t.Errorf("q = %q", q)
	}
	if rec.get("key") != "k-123" || rec.get("host") != "movies.example" {
		t.Errorf("headers key=%q host=%q", rec.get("key"), rec.get("host"))
	}
}

func TestMoviesNotConfigured(t *testing.T) {
	t.Parallel()

	m := NewMovies(MoviesConfig{BaseURL: "http://127.0.0.1:1"}, testOptions())
	if _, err := m.Search(context.Background(), "joy"); !errors.Is(err, recommend.ErrNotConfigured) {
		t.Errorf("Search() error = %v, want ErrNotConfigured", err)
	}
}

func TestBooksSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    []string
		wantErr error
	}{
		{
			name:   "formats title and first author",
			status: http.StatusOK,
			body:   `{"docs":[{"title":"The Hobbit","author_name":["J.R.R. Tolkien","Other"]},{"author_name":[]},{"title":"Anon"}]}`,
			want:   []string{"The Hobbit by J.R.R. Tolkien", "Unknown Title by Unknown Author", "Anon by Unknown Author"},
		},
		{
			name:    "no docs",
			status:  http.StatusOK,
			body:    `{"docs":[]}`,
			wantErr: recommend.ErrNoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search.json" || r.URL.Query().Get("q") != "calmness" || r.URL.Query().Get("limit") != "5" {
					t.Errorf("unexpected request %s", r.URL)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewBooks(srv.URL, testOptions()).Search(context.Background(), "calmness")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Search() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBooksUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, strings.Repeat("x", 5000), http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewBooks(srv.URL, testOptions()).Search(context.Background(), "fear")
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("Search() error = %v, want status 502", err)
	}
	if !strings.Contains(err.Error(), "(truncated)") {
		t.Errorf("error body not truncated: %d bytes", len(err.Error()))
	}
	if errors.Is(err, recommend.ErrNoResults) {
		t.Error("upstream failure reported as no results")
	}
}

func TestSongsSearch(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	var rec recorded
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("token request form = %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		rec.set("q", r.URL.Query().Get("q"))
		if r.URL.Query().Get("type") != "track" {
			t.Errorf("type = %q", r.URL.Query().Get("type"))
		}
		_, _ = w.Write([]byte(`{"tracks":{"items":[{"name":"Good as Hell","artists":[{"name":"Lizzo"}]},{"name":"Mystery","artists":[]}]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewSongs(SongsConfig{
		BaseURL:      srv.URL + "/v1",
		TokenURL:     srv.URL + "/api/token",
		ClientID:     "id",
		ClientSecret: "secret",
	}, testOptions())

	got, err := s.Search(context.Background(), recommend.UpliftKeyword)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []string{"Good as Hell by Lizzo", "Mystery by Unknown Artist"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search() = %v, want %v", got, want)
	}
	if q := rec.get("q"); q != upliftQuery {
		t.Errorf("q = %q, want %q", q, upliftQuery)
	}

	if _, err := s.Search(context.Background(), "joy"); err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	if q := rec.get("q"); q != "joy" {
		t.Errorf("q = %q, want literal keyword", q)
	}
	if n := tokenCalls.Load(); n != 1 {
		t.Errorf("token endpoint called %d times, want 1", n)
	}
}

func TestSongsNotConfigured(t *testing.T) {
	t.Parallel()

	s := NewSongs(SongsConfig{BaseURL: "http://127.0.0.1:1", ClientID: "only-id"}, testOptions())
	if _, err := s.Search(context.Background(), "joy"); !errors.Is(err, recommend.ErrNotConfigured) {
		t.Errorf("Search() error = %v, want ErrNotConfigured", err)
	}
}

func TestLookupCachesSuccess(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"docs":[{"title":"Walden","author_name":["Thoreau"]}]}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.CacheTTL = time.Minute
	b := NewBooks(srv.URL, opts)

	before := testutil.ToFloat64(metrics.ProviderCacheHits.WithLabelValues("books"))
	for i := 0; i < 3; i++ {
		got, err := b.Search(context.Background(), "Calmness")
		if err != nil || len(got) != 1 {
			t.Fatalf("Search() = %v, %v", got, err)
		}
		got[0] = "mutated"
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("upstream hit %d times, want 1", n)
	}
	if delta := testutil.ToFloat64(metrics.ProviderCacheHits.WithLabelValues("books")) - before; delta < 2 {
		t.Errorf("cache hit delta = %v, want >= 2", delta)
	}

	got, _ := b.Search(context.Background(), "calmness")
	if got[0] != "Walden by Thoreau" {
		t.Errorf("cached value mutated by caller: %v", got)
	}
	if removed := b.CleanupExpired(); removed != 0 {
		t.Errorf("CleanupExpired() = %d, want 0 before TTL", removed)
	}
	if n := testutil.ToFloat64(metrics.ProviderCacheEntries.WithLabelValues("books")); n != 1 {
		t.Errorf("cache entries gauge = %v, want 1", n)
	}
	if rate := testutil.ToFloat64(metrics.ProviderCacheHitRate.WithLabelValues("books")); rate != 75 {
		t.Errorf("cache hit rate gauge = %v, want 75", rate)
	}
}

func TestLookupCoalescesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"docs":[{"title":"Emma","author_name":["Austen"]}]}`))
	}))
	defer srv.Close()

	b := NewBooks(srv.URL, testOptions())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Search(context.Background(), "love"); err != nil {
				t.Errorf("Search() error = %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := hits.Load(); n != 1 {
		t.Errorf("upstream hit %d times for concurrent identical searches, want 1", n)
	}
}

func TestLookupSharedFetchSurvivesCallerCancel(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		started <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"docs":[{"title":"Persuasion","author_name":["Austen"]}]}`))
	}))
	defer srv.Close()

	b := NewBooks(srv.URL, testOptions())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := b.Search(ctxA, "loneliness")
		errA <- err
	}()
	<-started

	type result struct {
		items []string
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		items, err := b.Search(context.Background(), "loneliness")
		resB <- result{items, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", err)
	}

	close(release)
	got := <-resB
	if got.err != nil {
		t.Fatalf("waiting caller error = %v, want results", got.err)
	}
	if want := []string{"Persuasion by Austen"}; !reflect.DeepEqual(got.items, want) {
		t.Errorf("waiting caller items = %v, want %v", got.items, want)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("upstream hit %d times, want 1", n)
	}
}

func TestLookupRateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[{"title":"A","author_name":["B"]}]}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.RequestsPerSecond = 0.001
	b := NewBooks(srv.URL, opts)

	if _, err := b.Search(context.Background(), "joy"); err != nil {
		t.Fatalf("first Search() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := b.Search(ctx, "anger"); err == nil {
		t.Error("Search() succeeded despite exhausted rate limit")
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	if got := firstOr(nil, "d"); got != "d" {
		t.Errorf("firstOr(nil) = %q", got)
	}
	if got := firstOr([]string{"", "x"}, "d"); got != "d" {
		t.Errorf("firstOr(empty first) = %q", got)
	}
	if got := orDefault("v", "d"); got != "v" {
		t.Errorf("orDefault(v) = %q", got)
	}
}
