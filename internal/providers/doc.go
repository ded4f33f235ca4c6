// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package providers implements the three recommendation sources as
recommend.Searcher values:

  - Movies: RapidAPI AI Movie Recommender
  - Books: Open Library search
  - Songs: Spotify track search (client-credentials OAuth2)

Each client shares the same lookup pipeline:

	cache hit? -> return
	singleflight (one upstream call per keyword at a time)
	  -> rate limiter (golang.org/x/time/rate)
	  -> circuit breaker (sony/gobreaker)
	  -> HTTP GET + JSON decode (goccy/go-json)
	  -> cache non-empty results

Clients return recommend.ErrNoResults for an empty answer and
recommend.ErrNotConfigured when credentials are missing; the aggregator
maps those to the right fallback text. No call is retried.
*/
package providers
