// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/moodchat/internal/recommend"
)

// MoviesConfig locates the RapidAPI movie recommender.
type MoviesConfig struct {
	BaseURL string
	Host    string
	APIKey  string
}

// Movies searches films through RapidAPI.
type Movies struct {
	cfg    MoviesConfig
	client *http.Client
	*lookup
}

type movieSearchResponse struct {
	Movies []struct {
		Title string `json:"title"`
	} `json:"movies"`
}

// NewMovies creates a movie client.
func NewMovies(cfg MoviesConfig, opts Options) *Movies {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Movies{
		cfg:    cfg,
		client: opts.httpClient(),
		lookup: newLookup(string(recommend.SourceMovies), opts),
	}
}

// Search returns movie titles related to feeling keyword.
func (m *Movies) Search(ctx context.Context, keyword string) ([]string, error) {
	if m.cfg.APIKey == "" {
		return nil, fmt.Errorf("movies: %w", recommend.ErrNotConfigured)
	}
	return m.do(ctx, keyword, func(ctx context.Context) ([]string, error) {
		return m.fetch(ctx, keyword)
	})
}

func (m *Movies) fetch(ctx context.Context, keyword string) ([]string, error) {
	q := url.Values{}
	q.Set("q", "movies related to feeling "+keyword)
	reqURL := fmt.Sprintf("%s/api/search?%s", m.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("movies: create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", m.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", m.cfg.Host)

	var resp movieSearchResponse
	if err := getJSON(ctx, m.client, req, &resp); err != nil {
		return nil, fmt.Errorf("movies: %w", err)
	}
	if len(resp.Movies) == 0 {
		return nil, fmt.Errorf("movies: %w", recommend.ErrNoResults)
	}

	titles := make([]string, 0, len(resp.Movies))
	for _, mv := range resp.Movies {
		titles = append(titles, orDefault(mv.Title, "Unknown Title"))
	}
	return titles, nil
}
