// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

// Package recommend builds the media suggestions shown when a conversation
// ends.
//
// # Flow
//
// The first significant emotion of the session is the primary emotion
// (neutral when the list is empty). Movies and books are searched with the
// primary emotion itself. Songs are searched with the "uplifting" keyword
// when the primary emotion is a downer, so a sad user is offered cheerful
// music rather than more sad music.
//
//	agg := recommend.NewAggregator(recommend.Config{
//	    Movies: movies, Books: books, Songs: songs,
//	    Timeout: 10 * time.Second,
//	})
//	bundle, err := agg.Aggregate(ctx, []emotion.Emotion{emotion.Sadness})
//	// bundle.MusicCategory == "Uplifting"
//
// # Failure Isolation
//
// The three searches run concurrently, each under its own timeout. A search
// that errors, panics, times out or returns nothing is replaced by a fixed
// per-source fallback list; it never affects the other two. Aggregate
// itself fails only when the caller's context is cancelled.
//
// # Thread Safety
//
// Aggregator holds no mutable state and is safe for concurrent use.
package recommend
