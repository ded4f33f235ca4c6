// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateConversation(); err != nil {
		return err
	}
	return c.validateProviders()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled() {
		return nil
	}
	if err := validateHTTPURL(c.LLM.BaseURL, "LLM_BASE_URL"); err != nil {
		return err
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required when LLM_API_KEY is set")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	return nil
}

func (c *Config) validateConversation() error {
	cc := c.Conversation
	if cc.MaxRounds < 1 {
		return fmt.Errorf("MAX_CHAT_ROUNDS must be at least 1, got %d", cc.MaxRounds)
	}
	if cc.Threshold <= 0 || cc.Threshold > 100 {
		return fmt.Errorf("SIGNIFICANCE_THRESHOLD must be in (0, 100], got %v", cc.Threshold)
	}
	if cc.HistoryWindow < 1 {
		return fmt.Errorf("HISTORY_WINDOW must be at least 1, got %d", cc.HistoryWindow)
	}
	if cc.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be at least 1, got %d", cc.MaxSessions)
	}
	if cc.IdleTTL <= 0 || cc.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}
	if cc.TurnTimeout <= 0 || cc.TurnTimeout >= MaxTurnTimeout {
		return fmt.Errorf("TURN_TIMEOUT must be in (0, %s), got %s", MaxTurnTimeout, cc.TurnTimeout)
	}
	return nil
}

func (c *Config) validateProviders() error {
	p := c.Providers
	if p.RequestTimeout <= 0 {
		return fmt.Errorf("PROVIDER_REQUEST_TIMEOUT must be positive")
	}
	if p.RequestsPerSecond <= 0 {
		return fmt.Errorf("PROVIDER_REQUESTS_PER_SECOND must be positive")
	}
	endpoints := []struct{ name, raw string }{
		{"MOVIES_BASE_URL", p.Movies.BaseURL},
		{"OPENLIBRARY_BASE_URL", p.Books.BaseURL},
		{"SPOTIFY_BASE_URL", p.Spotify.BaseURL},
		{"SPOTIFY_TOKEN_URL", p.Spotify.TokenURL},
	}
	for _, e := range endpoints {
		if err := validateHTTPURL(e.raw, e.name); err != nil {
			return err
		}
	}
	return nil
}

func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
