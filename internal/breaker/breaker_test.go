// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodchat/internal/metrics"
)

var errUpstream = errors.New("upstream down")

func TestBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	b := New[string]("test-open", Settings{MinRequests: 4, FailureRatio: 0.5, Timeout: time.Hour})

	for i := 0; i < 4; i++ {
		if _, err := b.Execute(func() (string, error) { return "", errUpstream }); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d error = %v, want upstream error", i, err)
		}
	}

	if got := b.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	called := false
	_, err := b.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Errorf("Execute() on open breaker error = %v, want ErrOpen", err)
	}
	if called {
		t.Error("open breaker invoked the function")
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-open", "rejected")); got != 1 {
		t.Errorf("rejected requests = %v, want 1", got)
	}
}

func TestBreakerIsSuccessful(t *testing.T) {
	t.Parallel()

	errEmpty := errors.New("no results")
	b := New[int]("test-benign", Settings{
		MinRequests:  2,
		FailureRatio: 0.5,
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errEmpty) },
	})

	for i := 0; i < 10; i++ {
		if _, err := b.Execute(func() (int, error) { return 0, errEmpty }); !errors.Is(err, errEmpty) {
			t.Fatalf("error = %v, want errEmpty passed through", err)
		}
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed for benign errors", got)
	}
}

func TestBreakerPassesResults(t *testing.T) {
	t.Parallel()

	b := New[[]string]("test-pass", Settings{})
	got, err := b.Execute(func() ([]string, error) { return []string{"a", "b"}, nil })
	if err != nil || len(got) != 2 {
		t.Errorf("Execute() = %v, %v", got, err)
	}
	if b.Name() != "test-pass" {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestStateConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
