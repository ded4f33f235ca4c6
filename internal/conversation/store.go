// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/moodchat/internal/metrics"
)

// storeEntry is a node in the recency list.
type storeEntry struct {
	key       string
	session   *Session
	prev      *storeEntry
	next      *storeEntry
	expiresAt time.Time
}

// userLock serializes turns for one user. refs counts holders and waiters
// so the lock can be dropped from the table once nobody needs it.
type userLock struct {
	sem  chan struct{}
	refs int
}

// Store holds live sessions keyed by user identifier.
//
// Two kinds of locking are involved:
//   - mu guards the map and recency list, held only for the duration of a
//     Get, Put or Delete.
//   - Acquire hands out a per-user lock that the engine holds for a whole
//     turn, so two messages from the same user never interleave while
//     different users proceed in parallel.
//
// Sessions idle longer than the TTL are treated as absent and removed
// lazily or by Sweep. When the store is full the least recently used
// session is evicted.
type Store struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*storeEntry
	// head.next is the most recently used, tail.prev the least.
	head *storeEntry
	tail *storeEntry

	locksMu sync.Mutex
	locks   map[string]*userLock
}

// NewStore creates a store holding at most capacity sessions, each expiring
// after ttl without activity.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &Store{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*storeEntry),
		head:     &storeEntry{},
		tail:     &storeEntry{},
		locks:    make(map[string]*userLock),
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Acquire blocks until the caller holds the lock for userID or ctx ends.
// The returned release func must be called exactly once.
func (s *Store) Acquire(ctx context.Context, userID string) (release func(), err error) {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{sem: make(chan struct{}, 1)}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	select {
	case l.sem <- struct{}{}:
		return func() {
			<-l.sem
			s.unref(userID, l)
		}, nil
	case <-ctx.Done():
		s.unref(userID, l)
		return nil, ctx.Err()
	}
}

func (s *Store) unref(userID string, l *userLock) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, userID)
	}
}

// Get returns the live session for userID. Expired sessions are removed and
// reported as absent.
func (s *Store) Get(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[userID]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.removeEntry(e)
		metrics.RecordSessionEviction("idle")
		s.publishSize()
		return nil, false
	}
	return e.session, true
}

// Put stores sess under userID and refreshes its idle deadline.
func (s *Store) Put(userID string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	if e, ok := s.items[userID]; ok {
		e.session = sess
		e.expiresAt = expiresAt
		s.moveToFront(e)
		return
	}

	e := &storeEntry{key: userID, session: sess, expiresAt: expiresAt}
	s.addToFront(e)
	s.items[userID] = e
	for len(s.items) > s.capacity {
		s.evictOldest()
		metrics.RecordSessionEviction("capacity")
	}
	s.publishSize()
}

// Delete removes the session for userID. It reports whether one existed.
func (s *Store) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[userID]
	if !ok {
		return false
	}
	s.removeEntry(e)
	s.publishSize()
	return true
}

// Len returns the number of stored sessions, including expired ones not yet
// swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes every expired session and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for e := s.tail.prev; e != s.head; {
		prev := e.prev
		if now.After(e.expiresAt) {
			s.removeEntry(e)
			removed++
		}
		e = prev
	}
	if removed > 0 {
		metrics.ChatSessionEvictions.WithLabelValues("idle").Add(float64(removed))
		s.publishSize()
	}
	return removed
}

// Internal methods (must be called with mu held)

func (s *Store) publishSize() {
	metrics.SetActiveSessions(len(s.items))
}

func (s *Store) addToFront(e *storeEntry) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
}

func (s *Store) moveToFront(e *storeEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	s.addToFront(e)
}

func (s *Store) removeEntry(e *storeEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(s.items, e.key)
}

func (s *Store) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	s.removeEntry(oldest)
}
