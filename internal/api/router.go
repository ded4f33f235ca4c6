// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/moodchat/internal/middleware"
)

// DefaultSlowRequestThreshold escalates access logs to warn. Chat turns
// include language model calls, so the bar is high.
const DefaultSlowRequestThreshold = 15 * time.Second

// Router builds the chi routing tree.
type Router struct {
	handler       *Handler
	cors          func(http.Handler) http.Handler
	slowThreshold time.Duration
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, corsCfg CORSConfig) *Router {
	return &Router{
		handler:       handler,
		cors:          CORS(corsCfg),
		slowThreshold: DefaultSlowRequestThreshold,
	}
}

// SetupChi returns the root handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(router.slowThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.cors) // global so OPTIONS preflight is answered everywhere
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(router.handler.NotFound)
	r.MethodNotAllowed(router.handler.MethodNotAllowed)

	r.Get("/", router.handler.Root)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.Health)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Post("/message", router.handler.ChatMessage)
		if router.handler.hub != nil {
			r.Get("/ws", router.handler.ChatWS)
		}
	})

	r.Post("/chat/message", router.handler.LegacyChatMessage)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
