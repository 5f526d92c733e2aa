// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package testinfra runs external services in Docker for integration tests,
// using testcontainers-go.
//
// Everything here builds only with the integration tag:
//
//	go test -tags integration ./...
//
// NATSContainer starts a JetStream-enabled NATS server so the event bus
// can be tested across two instances the way it runs in production:
//
//	natsC, err := testinfra.NewNATSContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, natsC.Container)
//
// Tests are skipped when Docker is unavailable or with -short.
package testinfra
