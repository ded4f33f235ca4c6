// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package config loads Moodchat configuration.

Values are layered, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/moodchat/config.yaml)
 3. Environment variables, including any loaded from a .env file

Environment variables are mapped explicitly in envTransformFunc; unknown
variables are ignored. Notable ones:

  - PORT, HTTP_HOST: listen address (default 0.0.0.0:8000)
  - LLM_API_KEY, LLM_BASE_URL, LLM_MODEL: language model endpoint
  - RAPIDAPI_KEY: movie recommendations
  - SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET: song recommendations
  - MAX_CHAT_ROUNDS, SIGNIFICANCE_THRESHOLD: conversation policy
  - LOG_LEVEL, LOG_FORMAT: logging
*/
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	LLM          LLMConfig          `koanf:"llm"`
	Conversation ConversationConfig `koanf:"conversation"`
	Providers    ProvidersConfig    `koanf:"providers"`
	Security     SecurityConfig     `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// LLMConfig configures the OpenAI-compatible chat completion endpoint.
// An empty APIKey leaves the language model unconfigured and chat requests
// are answered with 503.
type LLMConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int64         `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
}

// Enabled reports whether a language model is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// MaxTurnTimeout is the exclusive upper bound for TurnTimeout. Websocket
// turns run inside the read loop, whose read deadline is 60s.
const MaxTurnTimeout = 60 * time.Second

// ConversationConfig holds dialogue policy and session store limits.
type ConversationConfig struct {
	MaxRounds     int           `koanf:"max_rounds"`
	Threshold     float64       `koanf:"threshold"`
	HistoryWindow int           `koanf:"history_window"`
	MaxSessions   int           `koanf:"max_sessions"`
	IdleTTL       time.Duration `koanf:"idle_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	TurnTimeout   time.Duration `koanf:"turn_timeout"`
}

// ProvidersConfig configures the three recommendation sources.
type ProvidersConfig struct {
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	Movies            MoviesConfig  `koanf:"movies"`
	Books             BooksConfig   `koanf:"books"`
	Spotify           SpotifyConfig `koanf:"spotify"`
}

// MoviesConfig configures the RapidAPI movie recommender.
type MoviesConfig struct {
	BaseURL string `koanf:"base_url"`
	Host    string `koanf:"host"`
	APIKey  string `koanf:"api_key"`
}

// BooksConfig configures the OpenLibrary search API.
type BooksConfig struct {
	BaseURL string `koanf:"base_url"`
}

// SpotifyConfig configures the Spotify Web API client-credentials flow.
type SpotifyConfig struct {
	BaseURL      string `koanf:"base_url"`
	TokenURL     string `koanf:"token_url"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

// Enabled reports whether Spotify credentials are present.
func (c SpotifyConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// SecurityConfig holds browser-facing settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
}
