// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package supervisor runs Moodchat's long-lived services under suture v4.

The tree has three layers so one failing layer restarts without the others:

	RootSupervisor ("moodchat")
	├── SessionSupervisor ("session-layer")
	│   └── SweeperService (idle sessions, provider caches)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket.Hub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, failure, backoff, restart) are logged through
sutureslog; pass logging.NewSlogLogger() so they reach zerolog.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddSessionService(supervisor.NewSweeperService(time.Minute, targets...))
	tree.AddMessagingService(hub)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx) // returns after ctx is canceled
*/
package supervisor
