// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/moodchat/internal/conversation"
	"github.com/tomtom215/moodchat/internal/websocket"
)

// RunningMessage is returned by GET /.
const RunningMessage = "Mood Aware Chatbot API is running. POST to /chat/message to interact."

// ChatEngine is the conversation core as seen by the handlers.
type ChatEngine interface {
	HandleMessage(ctx context.Context, userID, text, displayName string) (*conversation.Reply, error)
	Available() bool
}

// Handler serves every route.
type Handler struct {
	engine      ChatEngine
	hub         *websocket.Hub
	turnTimeout time.Duration
	startTime   time.Time
}

// NewHandler creates a Handler. hub may be nil to disable the websocket
// route; turnTimeout bounds one chat turn, zero meaning no bound.
func NewHandler(engine ChatEngine, hub *websocket.Hub, turnTimeout time.Duration) *Handler {
	return &Handler{
		engine:      engine,
		hub:         hub,
		turnTimeout: turnTimeout,
		startTime:   time.Now(),
	}
}

// Root answers GET / with a plain status object.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Raw(http.StatusOK, map[string]string{"message": RunningMessage})
}

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status           string  `json:"status"`
	LLMConfigured    bool    `json:"llm_configured"`
	WebSocketClients int     `json:"websocket_clients"`
	Uptime           float64 `json:"uptime_seconds"`
}

// Health reports that the process is alive, regardless of dependencies.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		LLMConfigured: h.engine.Available(),
		Uptime:        time.Since(h.startTime).Seconds(),
	}
	if !status.LLMConfigured {
		status.Status = "degraded"
	}
	if h.hub != nil {
		status.WebSocketClients = h.hub.ClientCount()
	}
	WriteSuccess(w, r, status)
}

// HealthReady returns 200 only when chat turns can be served.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Available()
	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).SuccessWithStatus(statusCode, map[string]interface{}{
		"ready_to_serve": ready,
		"llm_configured": ready,
		"uptime":         time.Since(h.startTime).Seconds(),
	})
}

// NotFound answers unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
}
