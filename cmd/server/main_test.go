// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/moodchat/internal/config"
	"github.com/tomtom215/moodchat/internal/logging"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Conversation: config.ConversationConfig{
			MaxSessions: 10,
		},
		Providers: config.ProvidersConfig{
			Books: config.BooksConfig{BaseURL: "http://127.0.0.1:1"},
		},
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}},
	}
}

func TestNewGeneratorWithoutKey(t *testing.T) {
	logging.Init(logging.Config{Level: "error", Format: "json"})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	if gen := newGenerator(config.LLMConfig{}); gen != nil {
		t.Errorf("newGenerator() = %v, want nil interface", gen)
	}
	if gen := newGenerator(config.LLMConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"}); gen == nil {
		t.Error("newGenerator() with key = nil")
	}
}

func TestNewAppWiring(t *testing.T) {
	logging.Init(logging.Config{Level: "error", Format: "json"})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	cfg := testConfig()
	a := newApp(cfg)
	if a.engine.Available() {
		t.Error("engine available without an LLM key")
	}
	if a.server.Addr != "127.0.0.1:0" {
		t.Errorf("server addr = %q", a.server.Addr)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/", http.StatusOK},
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/health/ready", http.StatusServiceUnavailable},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	tree, err := a.supervisorTree(cfg)
	if err != nil || tree == nil {
		t.Fatalf("supervisorTree() = %v, %v", tree, err)
	}
}
