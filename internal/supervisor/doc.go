// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package supervisor runs the long-lived components under a suture v4 tree.

	RootSupervisor ("spinwatch")
	├── FeedSupervisor ("feed-layer")
	│   └── FeedService
	├── MessagingSupervisor ("messaging-layer")
	│   └── PollerService (when the Telegram sink is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (when API_ENABLED=true)

Each layer restarts independently: a crashing command poller never takes the
feed down, and the feed's reconnect loop never affects the admin API.
Supervisor events are logged through sutureslog over the zerolog slog bridge.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddFeedService(services.NewFeedService(client))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
