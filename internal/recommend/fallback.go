// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package recommend

import "errors"

type fallbackSet struct {
	failed        []string
	empty         []string
	notConfigured []string
}

var fallbacks = map[Source]fallbackSet{
	SourceMovies: {
		failed: []string{"Could not fetch movies", "Check connection or API key."},
		empty:  []string{"No specific movies found", "Maybe try a general feel-good film?"},
	},
	SourceBooks: {
		failed: []string{"Could not fetch books", "Try searching online!"},
		empty:  []string{"No specific books found", "Maybe explore a local library?"},
	},
	SourceSongs: {
		failed:        []string{"Could not fetch songs", "Check Spotify connection."},
		empty:         []string{"No specific songs found", "Maybe try a favorite artist?"},
		notConfigured: []string{"Spotify unavailable", "Check credentials."},
	},
}

var upliftingSongs = []string{"'Happy' by Pharrell Williams", "'Walking on Sunshine' by Katrina & The Waves"}

// fallbackFor returns the canned list shown in place of a failed search.
// The result is a fresh slice.
func fallbackFor(src Source, keyword string, err error) []string {
	set := fallbacks[src]
	var out []string
	switch {
	case errors.Is(err, ErrNoResults):
		out = set.empty
		if src == SourceSongs && keyword == UpliftKeyword {
			out = upliftingSongs
		}
	case errors.Is(err, ErrNotConfigured) && set.notConfigured != nil:
		out = set.notConfigured
	default:
		out = set.failed
	}
	return append([]string(nil), out...)
}
