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
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tomtom215/moodchat/internal/recommend"
)

// upliftQuery widens the uplifting keyword into a Spotify search.
const upliftQuery = "uplifting OR happy OR positive energy"

// SongsConfig holds Spotify application credentials.
type SongsConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Enabled reports whether credentials are present.
func (c SongsConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Songs searches Spotify tracks.
type Songs struct {
	baseURL string
	client  *http.Client // nil when unconfigured
	*lookup
}

type trackSearchResponse struct {
	Tracks struct {
		Items []struct {
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"items"`
	} `json:"tracks"`
}

// NewSongs creates a Spotify client. Tokens are fetched lazily with the
// client-credentials grant and refreshed by oauth2 when they expire.
func NewSongs(cfg SongsConfig, opts Options) *Songs {
	s := &Songs{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		lookup:  newLookup(string(recommend.SourceSongs), opts),
	}
	if cfg.Enabled() {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		hc := opts.httpClient()
		s.client = cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, hc))
		s.client.Timeout = hc.Timeout
	}
	return s
}

// Search returns "track by artist" strings for keyword.
func (s *Songs) Search(ctx context.Context, keyword string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("songs: %w", recommend.ErrNotConfigured)
	}
	return s.do(ctx, keyword, func(ctx context.Context) ([]string, error) {
		return s.fetch(ctx, keyword)
	})
}

func (s *Songs) fetch(ctx context.Context, keyword string) ([]string, error) {
	query := keyword
	if keyword == recommend.UpliftKeyword {
		query = upliftQuery
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(searchLimit))
	reqURL := fmt.Sprintf("%s/search?%s", s.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("songs: create request: %w", err)
	}

	var resp trackSearchResponse
	if err := getJSON(ctx, s.client, req, &resp); err != nil {
		return nil, fmt.Errorf("songs: %w", err)
	}
	if len(resp.Tracks.Items) == 0 {
		return nil, fmt.Errorf("songs: %w", recommend.ErrNoResults)
	}

	out := make([]string, 0, len(resp.Tracks.Items))
	for _, tr := range resp.Tracks.Items {
		artist := "Unknown Artist"
		if len(tr.Artists) > 0 && tr.Artists[0].Name != "" {
			artist = tr.Artists[0].Name
		}
		out = append(out, fmt.Sprintf("%s by %s", orDefault(tr.Name, "Unknown Track"), artist))
	}
	return out, nil
}
