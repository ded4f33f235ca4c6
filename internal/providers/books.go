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

	"github.com/tomtom215/moodchat/internal/recommend"
)

// Books searches Open Library.
type Books struct {
	baseURL string
	client  *http.Client
	*lookup
}

type bookSearchResponse struct {
	Docs []struct {
		Title      string   `json:"title"`
		AuthorName []string `json:"author_name"`
	} `json:"docs"`
}

// NewBooks creates an Open Library client rooted at baseURL.
func NewBooks(baseURL string, opts Options) *Books {
	return &Books{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  opts.httpClient(),
		lookup:  newLookup(string(recommend.SourceBooks), opts),
	}
}

// Search returns "title by author" strings for keyword.
func (b *Books) Search(ctx context.Context, keyword string) ([]string, error) {
	return b.do(ctx, keyword, func(ctx context.Context) ([]string, error) {
		return b.fetch(ctx, keyword)
	})
}

func (b *Books) fetch(ctx context.Context, keyword string) ([]string, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("limit", strconv.Itoa(searchLimit))
	reqURL := fmt.Sprintf("%s/search.json?%s", b.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("books: create request: %w", err)
	}

	var resp bookSearchResponse
	if err := getJSON(ctx, b.client, req, &resp); err != nil {
		return nil, fmt.Errorf("books: %w", err)
	}
	if len(resp.Docs) == 0 {
		return nil, fmt.Errorf("books: %w", recommend.ErrNoResults)
	}

	out := make([]string, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		out = append(out, fmt.Sprintf("%s by %s",
			orDefault(d.Title, "Unknown Title"),
			firstOr(d.AuthorName, "Unknown Author")))
	}
	return out, nil
}
