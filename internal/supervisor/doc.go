// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package supervisor provides process supervision for Cinerank using suture v4.

Long-running services are grouped into three layers so a failure in one
layer restarts only that layer:

	cinerank
	├── data-layer
	│   ├── catalog-reload        (if CATALOG_RELOAD_INTERVAL > 0)
	│   ├── cache-janitor
	│   └── interaction-store-gc
	├── messaging-layer
	│   ├── event-components
	│   └── websocket-hub
	└── api-layer
	    └── http-server

Crashed services restart with suture's exponential backoff. Supervisor
events (start, failure, backoff) are logged through sutureslog using the
slog bridge from the logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

After shutdown, UnstoppedServiceReport lists services that ignored the
shutdown timeout.
*/
package supervisor
