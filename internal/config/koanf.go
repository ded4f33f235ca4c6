// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodchat/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file location.
const DotEnvPathEnvVar = "DOTENV_PATH"

// sliceConfigPaths are populated from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "production",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.5,
			MaxTokens:   300,
			Timeout:     30 * time.Second,
		},
		Conversation: ConversationConfig{
			MaxRounds:     5,
			Threshold:     30.0,
			HistoryWindow: 6,
			MaxSessions:   10000,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			TurnTimeout:   45 * time.Second,
		},
		Providers: ProvidersConfig{
			RequestTimeout:    10 * time.Second,
			RequestsPerSecond: 5,
			CacheTTL:          10 * time.Minute,
			Movies: MoviesConfig{
				BaseURL: "https://ai-movie-recommender.p.rapidapi.com",
				Host:    "ai-movie-recommender.p.rapidapi.com",
			},
			Books: BooksConfig{
				BaseURL: "https://openlibrary.org",
			},
			Spotify: SpotifyConfig{
				BaseURL:  "https://api.spotify.com/v1",
				TokenURL: "https://accounts.spotify.com/api/token",
			},
		},
		Security: SecurityConfig{
			CORSOrigins: []string{"*"},
		},
	}
}

// Load reads configuration from defaults, the optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"port":                  "server.port",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"llm_api_key":     "llm.api_key",
	"openai_api_key":  "llm.api_key",
	"llm_base_url":    "llm.base_url",
	"llm_model":       "llm.model",
	"llm_temperature": "llm.temperature",
	"llm_max_tokens":  "llm.max_tokens",
	"llm_timeout":     "llm.timeout",

	"max_chat_rounds":        "conversation.max_rounds",
	"significance_threshold": "conversation.threshold",
	"history_window":         "conversation.history_window",
	"max_sessions":           "conversation.max_sessions",
	"session_idle_ttl":       "conversation.idle_ttl",
	"session_sweep_interval": "conversation.sweep_interval",
	"turn_timeout":           "conversation.turn_timeout",

	"provider_request_timeout":     "providers.request_timeout",
	"provider_requests_per_second": "providers.requests_per_second",
	"provider_cache_ttl":           "providers.cache_ttl",
	"rapidapi_key":                 "providers.movies.api_key",
	"rapidapi_host":                "providers.movies.host",
	"movies_base_url":              "providers.movies.base_url",
	"openlibrary_base_url":         "providers.books.base_url",
	"spotify_client_id":            "providers.spotify.client_id",
	"spotify_client_secret":        "providers.spotify.client_secret",
	"spotify_base_url":             "providers.spotify.base_url",
	"spotify_token_url":            "providers.spotify.token_url",

	"cors_origins": "security.cors_origins",
}

// envTransformFunc returns "" for unmapped keys so that unrelated process
// environment never leaks into configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
