// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodchat/internal/breaker"
	"github.com/tomtom215/moodchat/internal/cache"
	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/metrics"
	"github.com/tomtom215/moodchat/internal/recommend"
)

const (
	// maxErrorBodySize caps how much of an error response is logged.
	maxErrorBodySize = 1024
	// maxResponseSize caps decoded response bodies.
	maxResponseSize = 4 << 20
	// searchLimit is how many results are requested upstream.
	searchLimit = 5
	// defaultTimeout bounds one upstream request when Options.Timeout is unset.
	defaultTimeout = 10 * time.Second
)

// Options are shared by every provider client.
type Options struct {
	// HTTPClient is the transport; nil builds one with Timeout.
	HTTPClient *http.Client
	// Timeout per upstream request.
	Timeout time.Duration
	// RequestsPerSecond paces upstream calls; 0 disables pacing.
	RequestsPerSecond float64
	// CacheTTL keeps successful results; 0 disables caching.
	CacheTTL time.Duration
	// Breaker overrides the circuit breaker settings.
	Breaker breaker.Settings
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.timeout()}
}

// lookup is the pipeline shared by the provider clients.
type lookup struct {
	name    string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *breaker.Breaker[[]string]
	cache   *cache.Cache[[]string]
	group   singleflight.Group
}

func newLookup(name string, opts Options) *lookup {
	l := &lookup{name: name, timeout: opts.timeout()}
	if opts.RequestsPerSecond > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	if opts.CacheTTL > 0 {
		l.cache = cache.New[[]string](opts.CacheTTL)
	}
	settings := opts.Breaker
	settings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, recommend.ErrNoResults) || errors.Is(err, context.Canceled)
	}
	l.breaker = breaker.New[[]string](name+"-api", settings)
	return l
}

// do returns cached results for keyword or runs fetch through the limiter
// and breaker. Concurrent calls for the same keyword share one fetch, which
// runs detached from any single caller's cancellation and is bounded by the
// lookup timeout. Each caller still returns as soon as its own ctx is done.
func (l *lookup) do(ctx context.Context, keyword string, fetch func(ctx context.Context) ([]string, error)) ([]string, error) {
	key := cache.Key(l.name, keyword)
	if l.cache != nil {
		if items, ok := l.cache.Get(key); ok {
			metrics.RecordProviderCacheHit(l.name)
			return append([]string(nil), items...), nil
		}
	}

	ch := l.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.fetchShared(fetchCtx, key, fetch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		items, _ := res.Val.([]string)
		return append([]string(nil), items...), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", l.name, ctx.Err())
	}
}

func (l *lookup) fetchShared(ctx context.Context, key string, fetch func(ctx context.Context) ([]string, error)) ([]string, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: rate limit wait: %w", l.name, err)
		}
	}

	start := time.Now()
	items, err := l.breaker.Execute(func() ([]string, error) {
		return fetch(ctx)
	})
	metrics.ObserveProviderLatency(l.name, time.Since(start))

	switch {
	case errors.Is(err, recommend.ErrNoResults):
		metrics.RecordProviderRequest(l.name, "empty")
	case err != nil:
		metrics.RecordProviderRequest(l.name, "error")
	default:
		metrics.RecordProviderRequest(l.name, "success")
		if l.cache != nil {
			l.cache.Set(key, items)
		}
	}
	return items, err
}

// CleanupExpired drops expired cache entries and publishes cache stats.
func (l *lookup) CleanupExpired() int {
	if l.cache == nil {
		return 0
	}
	removed := l.cache.CleanupExpired()
	metrics.SetProviderCacheStats(l.name, l.cache.HitRate(), l.cache.Len())
	return removed
}

// getJSON performs a GET and decodes a JSON body into out.
func getJSON(ctx context.Context, client *http.Client, req *http.Request, out interface{}) error {
	log := logging.Ctx(ctx)

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		log.Debug().Int("status", resp.StatusCode).Str("url", req.URL.Redacted()).Msg("provider returned error status")
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readBodyForError reads a bounded prefix of an error response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// firstOr returns the first element of list or def.
func firstOr(list []string, def string) string {
	if len(list) > 0 && list[0] != "" {
		return list[0]
	}
	return def
}

// orDefault returns s or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
