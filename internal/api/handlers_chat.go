// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodchat/internal/conversation"
	"github.com/tomtom215/moodchat/internal/emotion"
	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/recommend"
	"github.com/tomtom215/moodchat/internal/validation"
	"github.com/tomtom215/moodchat/internal/websocket"
)

// maxChatBodySize caps a chat request body.
const maxChatBodySize = 64 << 10

// UnavailableMessage is sent when no language model is configured.
const UnavailableMessage = "Chatbot LLM is currently unavailable. Please try again later."

// ChatRequest is one user message.
type ChatRequest struct {
	UserID   string `json:"user_id" validate:"required,notblank,max=128"`
	Text     string `json:"text" validate:"required,max=4000"`
	UserName string `json:"user_name,omitempty" validate:"omitempty,max=64"`
}

// ChatResponse is the reply to one message. Optional fields are null when
// absent.
type ChatResponse struct {
	UserID                     string            `json:"user_id"`
	AssistantMessage           string            `json:"assistant_message"`
	ConversationEnded          bool              `json:"conversation_ended"`
	FeelingBetterAcknowledged  bool              `json:"feeling_better_acknowledged"`
	Recommendations            *recommend.Bundle `json:"recommendations"`
	CurrentSignificantEmotions []string          `json:"current_significant_emotions"`
}

func newChatResponse(reply *conversation.Reply) ChatResponse {
	resp := ChatResponse{
		UserID:                    reply.UserID,
		AssistantMessage:          reply.AssistantMessage,
		ConversationEnded:         reply.ConversationEnded,
		FeelingBetterAcknowledged: reply.FeelingBetterAcknowledged,
		Recommendations:           reply.Recommendations,
	}
	if len(reply.CurrentSignificantEmotions) > 0 {
		resp.CurrentSignificantEmotions = emotion.Strings(reply.CurrentSignificantEmotions)
	}
	return resp
}

// turnError is a chat failure mapped for the client.
type turnError struct {
	status  int
	code    string
	message string
	details interface{}
}

func (e *turnError) Error() string { return e.message }

func (e *turnError) frame() *websocket.FrameError {
	return &websocket.FrameError{Code: e.code, Message: e.message}
}

// runTurn validates req and hands it to the engine.
func (h *Handler) runTurn(ctx context.Context, req *ChatRequest) (ChatResponse, *turnError) {
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		return ChatResponse{}, &turnError{
			status:  http.StatusBadRequest,
			code:    apiErr.Code,
			message: apiErr.Message,
			details: apiErr.Details,
		}
	}

	if h.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.turnTimeout)
		defer cancel()
	}

	reply, err := h.engine.HandleMessage(ctx, req.UserID, req.Text, req.UserName)
	if err == nil {
		return newChatResponse(reply), nil
	}

	log := logging.Ctx(logging.ContextWithUserID(ctx, req.UserID))
	switch {
	case errors.Is(err, conversation.ErrGeneratorUnavailable):
		log.Warn().Msg("chat turn rejected: language model not configured")
		return ChatResponse{}, &turnError{status: http.StatusServiceUnavailable, code: ErrCodeServiceUnavailable, message: UnavailableMessage}
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Msg("chat turn timed out")
		return ChatResponse{}, &turnError{status: http.StatusGatewayTimeout, code: ErrCodeTimeout, message: "Chat turn timed out. Please try again."}
	case errors.Is(err, context.Canceled):
		log.Debug().Err(err).Msg("chat turn canceled by client")
		return ChatResponse{}, &turnError{status: http.StatusServiceUnavailable, code: ErrCodeServiceUnavailable, message: "Request canceled"}
	default:
		log.Error().Err(err).Msg("chat turn failed")
		return ChatResponse{}, &turnError{status: http.StatusInternalServerError, code: ErrCodeInternalError, message: "Failed to process message"}
	}
}

// decodeChatRequest reads a bounded JSON body.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (*ChatRequest, *turnError) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxChatBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &turnError{status: http.StatusRequestEntityTooLarge, code: ErrCodeBadRequest, message: "Request body too large"}
		}
		return nil, &turnError{status: http.StatusBadRequest, code: ErrCodeBadRequest, message: "Failed to read request body"}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &turnError{status: http.StatusBadRequest, code: ErrCodeBadRequest, message: "Request body is empty"}
	}

	var req ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, &turnError{status: http.StatusBadRequest, code: ErrCodeBadRequest, message: "Request body is not valid JSON"}
	}
	return &req, nil
}

// ChatMessage handles POST /api/v1/chat/message.
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	resp, terr := h.chat(w, r)
	if terr != nil {
		rw.ErrorWithDetails(terr.status, terr.code, terr.message, terr.details)
		return
	}
	rw.Success(resp)
}

// LegacyChatMessage handles POST /chat/message, answering with the bare
// ChatResponse.
func (h *Handler) LegacyChatMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	resp, terr := h.chat(w, r)
	if terr != nil {
		rw.ErrorWithDetails(terr.status, terr.code, terr.message, terr.details)
		return
	}
	rw.Raw(http.StatusOK, resp)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) (ChatResponse, *turnError) {
	req, terr := decodeChatRequest(w, r)
	if terr != nil {
		return ChatResponse{}, terr
	}
	return h.runTurn(r.Context(), req)
}

// Dispatch answers a websocket chat frame; it implements
// websocket.Dispatcher.
func (h *Handler) Dispatch(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req ChatRequest
	if len(payload) == 0 {
		return nil, &websocket.FrameError{Code: ErrCodeBadRequest, Message: "chat frame has no data"}
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, &websocket.FrameError{Code: ErrCodeBadRequest, Message: "chat data is not a valid object"}
	}
	resp, terr := h.runTurn(ctx, &req)
	if terr != nil {
		return nil, terr.frame()
	}
	return resp, nil
}

// ChatWS handles GET /api/v1/chat/ws.
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.ServeWS(w, r, h); err != nil {
		if errors.Is(err, websocket.ErrHubClosed) {
			NewResponseWriter(w, r).ServiceUnavailable("Server is shutting down")
			return
		}
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
	}
}
