// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package main is the entry point for the Moodchat server.

Moodchat is a conversational companion that scores the emotions in a user's
messages with a language model, keeps a short per-user conversation going
until the user says goodbye or feels better, and then suggests movies, books
and songs matched to how they felt when they started.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("moodchat")
	├── SessionSupervisor ("session-layer")
	│   └── Session sweeper (idle sessions, provider caches)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with .env, config file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Language model: OpenAI-compatible client (optional)
 4. Recommendation providers: movies, books, songs
 5. Conversation engine and session store
 6. WebSocket hub
 7. Chi router with middleware stack
 8. Supervisor tree

# Configuration

	# Server
	PORT=8000                    # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Language model (chat answers 503 without a key)
	LLM_API_KEY=<key>            # or OPENAI_API_KEY
	LLM_BASE_URL=https://api.openai.com/v1
	LLM_MODEL=gpt-4o-mini

	# Recommendations
	RAPIDAPI_KEY=<key>
	SPOTIFY_CLIENT_ID=<id>
	SPOTIFY_CLIENT_SECRET=<secret>

	# Conversation policy
	MAX_CHAT_ROUNDS=5
	SIGNIFICANCE_THRESHOLD=30

See internal/config for the complete list.

# Signal Handling

On SIGINT or SIGTERM the supervisor tree is canceled:

 1. The HTTP server stops accepting connections and drains requests
 2. WebSocket clients receive a going-away close frame
 3. The session sweeper stops
 4. Any services that failed to stop are reported
*/
package main
