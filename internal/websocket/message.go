// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package websocket

import (
	"context"

	"github.com/goccy/go-json"
)

// Frame types.
const (
	MessageTypeChat  = "chat"
	MessageTypeReply = "reply"
	MessageTypeError = "error"
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
)

// Error codes sent in error frames that are not produced by a Dispatcher.
const (
	ErrCodeBadFrame    = "BAD_REQUEST"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeUnknownType = "UNKNOWN_TYPE"
)

// Message is an outbound frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// inbound is a frame read from the peer; Data is decoded by the Dispatcher.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ErrorData is the payload of an error frame.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FrameError is returned by a Dispatcher to send a specific error frame.
type FrameError struct {
	Code    string
	Message string
}

func (e *FrameError) Error() string {
	return e.Code + ": " + e.Message
}

// Dispatcher answers one chat frame. The returned value becomes the data of
// a reply frame. A *FrameError is sent as is; any other error becomes an
// INTERNAL_ERROR frame.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload json.RawMessage) (interface{}, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, payload json.RawMessage) (interface{}, error)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	return f(ctx, payload)
}

func errorMessage(code, message string) Message {
	return Message{Type: MessageTypeError, Data: ErrorData{Code: code, Message: message}}
}
