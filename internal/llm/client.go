// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/tomtom215/moodchat/internal/breaker"
	"github.com/tomtom215/moodchat/internal/metrics"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 300
	DefaultTimeout     = 30 * time.Second
)

// Config selects the endpoint and sampling parameters.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is a Generator backed by a chat completions endpoint. Each prompt
// is sent as a single user message. Retries are disabled: a failed call is
// reported once and the caller falls back.
type Client struct {
	api     openaigo.Client
	model   string
	params  func(prompt string) openaigo.ChatCompletionNewParams
	breaker *breaker.Breaker[string]
}

// NewClient creates a Client. It returns an error when no API key is set so
// callers can run without a model and report it as unavailable.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	api := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)

	return &Client{
		api:   api,
		model: model,
		params: func(prompt string) openaigo.ChatCompletionNewParams {
			return openaigo.ChatCompletionNewParams{
				Model:       openaigo.ChatModel(model),
				Messages:    []openaigo.ChatCompletionMessageParamUnion{openaigo.UserMessage(prompt)},
				Temperature: param.NewOpt(temperature),
				MaxTokens:   param.NewOpt(maxTokens),
			}
		},
		breaker: breaker.New[string]("llm", breaker.Settings{}),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt and returns the first choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.breaker.Execute(func() (string, error) {
		resp, err := c.api.Chat.Completions.New(ctx, c.params(prompt))
		if err != nil {
			return "", fmt.Errorf("llm: chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}
		return resp.Choices[0].Message.Content, nil
	})
	metrics.RecordLLMRequest(time.Since(start), err)
	return text, err
}
