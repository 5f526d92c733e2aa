// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

//go:build integration

package testinfra

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func TestNATSContainer_JetStream(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	natsC, err := NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create NATS container: %v", err)
	}
	defer CleanupContainer(t, ctx, natsC.Container)

	if !strings.HasPrefix(natsC.URL, "nats://") {
		t.Errorf("URL = %q", natsC.URL)
	}

	nc, err := nats.Connect(natsC.URL, nats.Timeout(5*time.Second))
	if err != nil {
		DumpLogs(t, ctx, natsC.Container)
		t.Fatalf("Connect: %v", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		t.Fatalf("JetStream: %v", err)
	}
	if _, err := js.AccountInfo(); err != nil {
		t.Errorf("JetStream not enabled: %v", err)
	}
}

func TestContainerOptions(t *testing.T) {
	cfg := &natsConfig{image: DefaultNATSImage, startTimeout: time.Minute}
	WithNATSImage("nats:latest")(cfg)
	WithStartTimeout(5 * time.Second)(cfg)

	if cfg.image != "nats:latest" || cfg.startTimeout != 5*time.Second {
		t.Errorf("config = %+v", cfg)
	}
}
