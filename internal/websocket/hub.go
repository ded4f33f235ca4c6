// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package websocket

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/metrics"
)

// ErrHubClosed is returned by ServeWS while the hub is not running.
var ErrHubClosed = errors.New("websocket hub is not accepting connections")

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub tracks open chat connections.
type Hub struct {
	upgrader websocket.Upgrader

	mu        sync.Mutex
	clients   map[*Client]struct{}
	accepting bool
}

// NewHub creates a hub accepting upgrades from allowedOrigins. An empty
// list or "*" accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{clients: make(map[*Client]struct{})}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[strings.ToLower(o)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// Serve accepts connections until ctx ends, then closes every client. It
// implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	h.mu.Lock()
	h.accepting = true
	h.mu.Unlock()

	<-ctx.Done()

	h.mu.Lock()
	h.accepting = false
	h.mu.Unlock()

	closed := h.closeAllClients()
	log := logging.WithComponent(h.String())
	log.Info().
		Str("reason", string(shutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
	return ctx.Err()
}

func (h *Hub) String() string { return "websocket-hub" }

// ServeWS upgrades the request and starts a client bound to d.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, d Dispatcher) error {
	h.mu.Lock()
	accepting := h.accepting
	h.mu.Unlock()
	if !accepting {
		return ErrHubClosed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error.
		return err
	}

	// The connection outlives the request; keep its values but not its
	// cancellation.
	c := newClient(context.WithoutCancel(r.Context()), h, conn, d)
	if !h.register(c) {
		c.cancel()
		_ = conn.Close()
		return ErrHubClosed
	}
	c.start()
	return nil
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if !h.accepting {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetWebSocketClients(n)
	logging.Ctx(c.ctx).Debug().Uint64("client_id", c.id).Int("total_clients", n).Msg("websocket client connected")
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetWebSocketClients(n)
	logging.Ctx(c.ctx).Debug().Uint64("client_id", c.id).Int("total_clients", n).Msg("websocket client disconnected")
}

// closeAllClients stops every client in ID order and returns how many
// there were.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	for _, c := range clients {
		c.cancel()
	}
	metrics.SetWebSocketClients(0)
	return len(clients)
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}
