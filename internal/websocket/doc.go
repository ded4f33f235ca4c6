// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package websocket serves chat over a persistent connection.

Each connection is a Client with two goroutines:
  - readPump: reads frames, answers ping with pong, hands chat frames to
    the Dispatcher one at a time so a connection's turns stay ordered
  - writePump: writes queued frames and keeps the peer alive with pings

The Hub tracks open clients so they can be counted and closed together.
http.Server.Shutdown does not close hijacked connections, so the hub runs
as a supervised service and closes every client when its context ends.

Frames:

	-> {"type":"chat","data":{"user_id":"u1","text":"I feel awful","user_name":"Sam"}}
	<- {"type":"reply","data":{...chat response...}}
	-> {"type":"ping"}
	<- {"type":"pong"}
	<- {"type":"error","data":{"code":"VALIDATION_ERROR","message":"text is required"}}
*/
package websocket
