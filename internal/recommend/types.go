// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package recommend

import (
	"context"
	"errors"
)

// UpliftKeyword replaces downer emotions in the song search.
const UpliftKeyword = "uplifting"

// UpliftCategory is the music category shown when the uplift substitution
// applied.
const UpliftCategory = "Uplifting"

// MaxItems is the most suggestions kept per source.
const MaxItems = 2

// Errors a Searcher may return (possibly wrapped) to pick a specific
// fallback. Any other error selects the generic "could not fetch" fallback.
var (
	// ErrNoResults means the source answered but found nothing.
	ErrNoResults = errors.New("recommend: no results")

	// ErrNotConfigured means the source has no credentials.
	ErrNotConfigured = errors.New("recommend: source not configured")
)

// Searcher looks up display strings for a keyword.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]string, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, keyword string) ([]string, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, keyword string) ([]string, error) {
	return f(ctx, keyword)
}

// Bundle is the set of suggestions attached to a finished conversation.
type Bundle struct {
	Movies        []string `json:"movies"`
	Books         []string `json:"books"`
	Songs         []string `json:"songs"`
	MusicCategory string   `json:"music_category"`
}

// Source identifies one of the three recommendation sources.
type Source string

const (
	SourceMovies Source = "movies"
	SourceBooks  Source = "books"
	SourceSongs  Source = "songs"
)
