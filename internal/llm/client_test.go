// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
)

// completionServer fakes the chat completions endpoint.
type completionServer struct {
	mu       sync.Mutex
	lastBody map[string]interface{}
	lastAuth string
	calls    atomic.Int32
	status   int
	reply    string
}

func (s *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	s.mu.Lock()
	s.lastBody = body
	s.lastAuth = r.Header.Get("Authorization")
	status, reply := s.status, s.reply
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
		return
	}
	_, _ = w.Write([]byte(reply))
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]interface{}{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{APIKey: "  "}); err == nil {
		t.Error("NewClient() without key succeeded")
	}
}

func TestClientGenerate(t *testing.T) {
	t.Parallel()

	fake := &completionServer{reply: completion("Emotion Probabilities:\njoy: 100%")}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "test-model"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Model() != "test-model" {
		t.Errorf("Model() = %q", c.Model())
	}

	got, err := c.Generate(context.Background(), "score this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(got, "joy: 100%") {
		t.Errorf("Generate() = %q", got)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.lastAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", fake.lastAuth)
	}
	if fake.lastBody["model"] != "test-model" {
		t.Errorf("model = %v", fake.lastBody["model"])
	}
	if fake.lastBody["temperature"] != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", fake.lastBody["temperature"], DefaultTemperature)
	}
	if fake.lastBody["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("max_tokens = %v, want %v", fake.lastBody["max_tokens"], DefaultMaxTokens)
	}
	msgs, _ := fake.lastBody["messages"].([]interface{})
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want one user message", fake.lastBody["messages"])
	}
}

func TestClientGenerateNoRetries(t *testing.T) {
	t.Parallel()

	fake := &completionServer{status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Fatal("Generate() succeeded against a failing server")
	}
	if n := fake.calls.Load(); n != 1 {
		t.Errorf("server called %d times, want exactly 1", n)
	}
}

func TestClientGenerateEmptyChoices(t *testing.T) {
	t.Parallel()

	fake := &completionServer{reply: `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := c.Generate(context.Background(), "hi"); !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("Generate() error = %v, want ErrEmptyCompletion", err)
	}
}

func TestGeneratorFunc(t *testing.T) {
	t.Parallel()

	var g Generator = GeneratorFunc(func(_ context.Context, p string) (string, error) {
		return strings.ToUpper(p), nil
	})
	got, err := g.Generate(context.Background(), "abc")
	if err != nil || got != "ABC" {
		t.Errorf("Generate() = %q, %v", got, err)
	}
}
