// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

// Package llm connects Moodchat to a text-generation model.
//
// The rest of the module depends only on Generator, a prompt-in/text-out
// capability. The production implementation (Client) talks to any
// OpenAI-compatible chat completions endpoint (OpenAI, a local llama.cpp or
// Ollama server, Gemini's compatibility API) through openai-go, guarded by a
// circuit breaker. Tests substitute GeneratorFunc with canned text.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model answers with no choices.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Generator produces free text for a prompt. Output is untrusted: callers
// must tolerate any shape of response.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
