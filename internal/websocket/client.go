// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package websocket

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/moodchat/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 16
)

var clientIDCounter atomic.Uint64

// Client is one chat connection.
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	dispatch Dispatcher
	send     chan Message

	// ctx ends when either pump exits or the hub shuts down.
	ctx    context.Context
	cancel context.CancelFunc
}

func newClient(parent context.Context, hub *Hub, conn *websocket.Conn, d Dispatcher) *Client {
	ctx, cancel := context.WithCancel(parent)
	return &Client{
		id:       clientIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		dispatch: d,
		send:     make(chan Message, sendBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID returns the client's process-unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

func (c *Client) start() {
	go c.writePump()
	go c.readPump()
}

// readPump reads frames until the peer goes away or ctx ends. Chat frames
// are dispatched inline, so a client never has two turns in flight.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.unregister(c)
	}()

	log := logging.Ctx(c.ctx)
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		var frame inbound
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.queue(errorMessage(ErrCodeBadFrame, "frame is not valid JSON"))
			continue
		}

		switch frame.Type {
		case MessageTypePing:
			c.queue(Message{Type: MessageTypePong})
		case MessageTypeChat:
			c.queue(c.handleChat(frame.Data))
			// Pongs are only processed inside ReadMessage.
			if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				log.Error().Err(err).Msg("failed to set read deadline")
				return
			}
		default:
			c.queue(errorMessage(ErrCodeUnknownType, "unknown message type: "+frame.Type))
		}
	}
}

func (c *Client) handleChat(payload json.RawMessage) Message {
	reply, err := c.dispatch.Dispatch(c.ctx, payload)
	if err == nil {
		return Message{Type: MessageTypeReply, Data: reply}
	}

	var fe *FrameError
	if errors.As(err, &fe) {
		return errorMessage(fe.Code, fe.Message)
	}
	logging.Ctx(c.ctx).Error().Err(err).Uint64("client_id", c.id).Msg("websocket chat dispatch failed")
	return errorMessage(ErrCodeInternal, "failed to process message")
}

// queue hands msg to writePump unless the client is shutting down.
func (c *Client) queue(msg Message) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

// writePump writes queued frames and pings. It owns closing the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	log := logging.Ctx(c.ctx)
	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing connection"))
			return

		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Msg("failed to set write deadline")
				c.cancel()
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				log.Error().Err(err).Str("type", msg.Type).Msg("failed to encode websocket frame")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				c.cancel()
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.cancel()
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}
