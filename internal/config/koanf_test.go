// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points config discovery at an empty temp dir so a developer's
// local config.yaml or .env cannot leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
	old := DefaultConfigPaths
	DefaultConfigPaths = nil
	t.Cleanup(func() { DefaultConfigPaths = old })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Conversation.MaxRounds != 5 {
		t.Errorf("Conversation.MaxRounds = %d, want 5", cfg.Conversation.MaxRounds)
	}
	if cfg.Conversation.Threshold != 30.0 {
		t.Errorf("Conversation.Threshold = %v, want 30", cfg.Conversation.Threshold)
	}
	if cfg.Conversation.HistoryWindow != 6 {
		t.Errorf("Conversation.HistoryWindow = %d, want 6", cfg.Conversation.HistoryWindow)
	}
	if cfg.LLM.Enabled() {
		t.Error("LLM should be disabled without an API key")
	}
	if cfg.Providers.Spotify.Enabled() {
		t.Error("Spotify should be disabled without credentials")
	}
	if cfg.Providers.Books.BaseURL != "https://openlibrary.org" {
		t.Errorf("Books.BaseURL = %q", cfg.Providers.Books.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "mistral-7b-instruct")
	t.Setenv("MAX_CHAT_ROUNDS", "3")
	t.Setenv("SESSION_IDLE_TTL", "5m")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://moodchat.example")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.LLM.Enabled() || cfg.LLM.Model != "mistral-7b-instruct" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Conversation.MaxRounds != 3 {
		t.Errorf("MaxRounds = %d, want 3", cfg.Conversation.MaxRounds)
	}
	if cfg.Conversation.IdleTTL != 5*time.Minute {
		t.Errorf("IdleTTL = %v, want 5m", cfg.Conversation.IdleTTL)
	}
	if !cfg.Providers.Spotify.Enabled() {
		t.Error("Spotify should be enabled")
	}
	want := []string{"http://localhost:3000", "https://moodchat.example"}
	if strings.Join(cfg.Security.CORSOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadFromFileAndDotEnv(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "config.yaml")
	yamlBody := "server:\n  port: 7000\nconversation:\n  max_rounds: 8\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("RAPIDAPI_KEY=from-dotenv\nMAX_CHAT_ROUNDS=4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, yamlPath)
	t.Setenv(DotEnvPathEnvVar, envPath)
	// godotenv sets these on the process; clear them afterwards.
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("MAX_CHAT_ROUNDS", "")
	os.Unsetenv("RAPIDAPI_KEY")
	os.Unsetenv("MAX_CHAT_ROUNDS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Conversation.MaxRounds != 4 {
		t.Errorf("MaxRounds = %d, want 4 (env beats file)", cfg.Conversation.MaxRounds)
	}
	if cfg.Providers.Movies.APIKey != "from-dotenv" {
		t.Errorf("Movies.APIKey = %q, want from-dotenv", cfg.Providers.Movies.APIKey)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"PORT":                  "server.port",
		"LOG_LEVEL":             "logging.level",
		"OPENAI_API_KEY":        "llm.api_key",
		"RAPIDAPI_KEY":          "providers.movies.api_key",
		"SPOTIFY_CLIENT_SECRET": "providers.spotify.client_secret",
		"HOME":                  "",
		"PATH":                  "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"llm without model", func(c *Config) { c.LLM.APIKey = "k"; c.LLM.Model = "" }, "LLM_MODEL"},
		{"llm bad url", func(c *Config) { c.LLM.APIKey = "k"; c.LLM.BaseURL = "ftp://x" }, "LLM_BASE_URL"},
		{"zero rounds", func(c *Config) { c.Conversation.MaxRounds = 0 }, "MAX_CHAT_ROUNDS"},
		{"threshold over 100", func(c *Config) { c.Conversation.Threshold = 101 }, "SIGNIFICANCE_THRESHOLD"},
		{"no sessions", func(c *Config) { c.Conversation.MaxSessions = 0 }, "MAX_SESSIONS"},
		{"zero turn timeout", func(c *Config) { c.Conversation.TurnTimeout = 0 }, "TURN_TIMEOUT"},
		{"turn timeout outlives websocket read deadline", func(c *Config) { c.Conversation.TurnTimeout = MaxTurnTimeout }, "TURN_TIMEOUT"},
		{"bad books url", func(c *Config) { c.Providers.Books.BaseURL = "openlibrary.org" }, "OPENLIBRARY_BASE_URL"},
		{"zero pacing", func(c *Config) { c.Providers.RequestsPerSecond = 0 }, "PROVIDER_REQUESTS_PER_SECOND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
