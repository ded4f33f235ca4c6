// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package api is the HTTP surface of Moodchat.

Routes (see Router.SetupChi):

	GET  /                       running message
	GET  /api/v1/health          liveness
	GET  /api/v1/health/ready    readiness, 503 without a language model
	POST /api/v1/chat/message    one chat turn, enveloped response
	GET  /api/v1/chat/ws         chat over a websocket
	POST /chat/message           one chat turn, bare response for older clients
	GET  /metrics                Prometheus exposition

Versioned endpoints answer with the APIResponse envelope:

	{"success":true,"data":{...},"meta":{"request_id":"...","timestamp":"..."}}
	{"success":false,"error":{"code":"VALIDATION_ERROR","message":"text is required"},"meta":{...}}

The legacy chat path returns the ChatResponse object itself on success and
the same error envelope on failure.
*/
package api
