// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package cache provides a thread-safe, typed in-memory cache with TTL
expiration.

Recommendation providers use it to avoid asking the same upstream API the
same question repeatedly: the keyword space is tiny (19 emotions plus the
uplifting keyword), so a short TTL absorbs nearly all repeat traffic.

# Expiration

Expired entries are dropped lazily on Get and in bulk by CleanupExpired,
which the session sweeper calls on each tick. There is no background
goroutine per cache.

# Usage Example

	c := cache.New[[]string](10 * time.Minute)
	c.Set(cache.Key("books", "sadness"), titles)
	if titles, ok := c.Get(cache.Key("books", "sadness")); ok {
	    return titles, nil
	}

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
