// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/moodchat/internal/emotion"
	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/metrics"
)

// DefaultTimeout bounds one source search when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Config wires the three sources. A nil Searcher behaves as unconfigured.
type Config struct {
	Movies  Searcher
	Books   Searcher
	Songs   Searcher
	Timeout time.Duration
}

// Aggregator fans a primary emotion out to the three sources.
type Aggregator struct {
	sources map[Source]Searcher
	timeout time.Duration
}

// NewAggregator creates an Aggregator.
func NewAggregator(cfg Config) *Aggregator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{
		sources: map[Source]Searcher{
			SourceMovies: cfg.Movies,
			SourceBooks:  cfg.Books,
			SourceSongs:  cfg.Songs,
		},
		timeout: timeout,
	}
}

// searchResult holds one source's outcome.
type searchResult struct {
	source Source
	items  []string
}

// Aggregate builds the bundle for emotions. Individual source failures are
// replaced with fallbacks; the only error returned is ctx's.
func (a *Aggregator) Aggregate(ctx context.Context, emotions []emotion.Emotion) (Bundle, error) {
	primary := emotion.Neutral
	if len(emotions) > 0 {
		primary = emotions[0]
	}
	songKeyword, category := primary.String(), primary.Title()
	if emotion.IsDowner(primary) {
		songKeyword, category = UpliftKeyword, UpliftCategory
	}

	queries := map[Source]string{
		SourceMovies: primary.String(),
		SourceBooks:  primary.String(),
		SourceSongs:  songKeyword,
	}

	logging.Ctx(ctx).Info().
		Str("primary_emotion", primary.String()).
		Str("song_keyword", songKeyword).
		Msg("building recommendations")

	results := a.searchAll(ctx, queries)

	if err := ctx.Err(); err != nil {
		return Bundle{}, fmt.Errorf("aggregate recommendations: %w", err)
	}

	bundle := Bundle{
		Movies:        results[SourceMovies],
		Books:         results[SourceBooks],
		Songs:         results[SourceSongs],
		MusicCategory: category,
	}
	metrics.RecordRecommendationBundle(category)
	return bundle, nil
}

// searchAll runs every source in parallel.
func (a *Aggregator) searchAll(ctx context.Context, queries map[Source]string) map[Source][]string {
	ch := make(chan searchResult, len(queries))
	var wg sync.WaitGroup

	for src, keyword := range queries {
		wg.Add(1)
		go func(src Source, keyword string) {
			defer wg.Done()
			ch <- searchResult{source: src, items: a.searchOne(ctx, src, keyword)}
		}(src, keyword)
	}

	wg.Wait()
	close(ch)

	out := make(map[Source][]string, len(queries))
	for r := range ch {
		out[r.source] = r.items
	}
	return out
}

// searchOne runs a single source and converts every failure mode into the
// source's fallback list.
func (a *Aggregator) searchOne(ctx context.Context, src Source, keyword string) (items []string) {
	log := logging.Ctx(ctx).With().Str("source", string(src)).Str("keyword", keyword).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recommendation source panicked")
			metrics.RecordProviderRequest(string(src), "fallback")
			items = fallbackFor(src, keyword, fmt.Errorf("panic: %v", r))
		}
	}()

	searcher := a.sources[src]
	if searcher == nil {
		log.Warn().Msg("recommendation source not configured")
		metrics.RecordProviderRequest(string(src), "fallback")
		return fallbackFor(src, keyword, ErrNotConfigured)
	}

	searchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	found, err := searcher.Search(searchCtx, keyword)
	if err == nil && len(found) == 0 {
		err = ErrNoResults
	}
	if err != nil {
		log.Warn().Err(err).Msg("recommendation search failed, using fallback")
		metrics.RecordProviderRequest(string(src), "fallback")
		return fallbackFor(src, keyword, err)
	}

	if len(found) > MaxItems {
		found = found[:MaxItems]
	}
	return append([]string(nil), found...)
}
