// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package supervisor

import (
	"context"
	"time"

	"github.com/tomtom215/moodchat/internal/logging"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = time.Minute

// SweepTarget is something holding expiring entries. Sweep removes the
// expired ones and returns how many it removed.
type SweepTarget struct {
	Name  string
	Sweep func() int
}

// SweeperService periodically purges expired sessions and cache entries.
// Stores also expire lazily on read; the sweep bounds memory held by users
// who never return.
type SweeperService struct {
	interval time.Duration
	targets  []SweepTarget
}

// NewSweeperService creates a sweeper running every interval.
func NewSweeperService(interval time.Duration, targets ...SweepTarget) *SweeperService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SweeperService{interval: interval, targets: targets}
}

// Serve sweeps on every tick until ctx is canceled.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

// sweepOnce runs every target and returns the total removed.
func (s *SweeperService) sweepOnce() int {
	log := logging.WithComponent(s.String())
	total := 0
	for _, t := range s.targets {
		if t.Sweep == nil {
			continue
		}
		n := t.Sweep()
		if n > 0 {
			log.Debug().Str("target", t.Name).Int("removed", n).Msg("sweep removed expired entries")
		}
		total += n
	}
	return total
}

func (s *SweeperService) String() string {
	return "session-sweeper"
}
