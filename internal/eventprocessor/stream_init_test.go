// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
)

type fakeJetStream struct {
	lookupErr error
	created   []jetstream.StreamConfig
	updated   []jetstream.StreamConfig
}

func (f *fakeJetStream) Stream(_ context.Context, _ string) (jetstream.Stream, error) {
	return nil, f.lookupErr
}

func (f *fakeJetStream) CreateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.created = append(f.created, cfg)
	return nil, nil
}

func (f *fakeJetStream) UpdateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.updated = append(f.updated, cfg)
	return nil, nil
}

func TestStreamInitializerEnsureStream(t *testing.T) {
	t.Parallel()

	cfg := DefaultStreamConfig()

	t.Run("creates missing stream", func(t *testing.T) {
		t.Parallel()
		js := &fakeJetStream{lookupErr: jetstream.ErrStreamNotFound}
		si, err := NewStreamInitializer(js, &cfg)
		if err != nil {
			t.Fatalf("NewStreamInitializer: %v", err)
		}

		if _, err := si.EnsureStream(context.Background()); err != nil {
			t.Fatalf("EnsureStream: %v", err)
		}
		if len(js.created) != 1 || len(js.updated) != 0 {
			t.Fatalf("created=%d updated=%d, want 1/0", len(js.created), len(js.updated))
		}
		got := js.created[0]
		if got.Name != "CINERANK_EVENTS" || got.Subjects[0] != "cinerank.>" {
			t.Errorf("stream config = %+v", got)
		}
		if got.Duplicates != cfg.DuplicateWindow {
			t.Errorf("Duplicates = %v, want %v", got.Duplicates, cfg.DuplicateWindow)
		}
	})

	t.Run("updates existing stream", func(t *testing.T) {
		t.Parallel()
		js := &fakeJetStream{}
		si, _ := NewStreamInitializer(js, &cfg)

		if _, err := si.EnsureStream(context.Background()); err != nil {
			t.Fatalf("EnsureStream: %v", err)
		}
		if len(js.updated) != 1 || len(js.created) != 0 {
			t.Errorf("created=%d updated=%d, want 0/1", len(js.created), len(js.updated))
		}
	})

	t.Run("propagates lookup failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection closed")
		js := &fakeJetStream{lookupErr: boom}
		si, _ := NewStreamInitializer(js, &cfg)

		if _, err := si.EnsureStream(context.Background()); !errors.Is(err, boom) {
			t.Errorf("EnsureStream() = %v, want %v", err, boom)
		}
	})
}

func TestNewStreamInitializerRequiresArgs(t *testing.T) {
	t.Parallel()

	cfg := DefaultStreamConfig()
	if _, err := NewStreamInitializer(nil, &cfg); err == nil {
		t.Error("expected error for nil JetStream context")
	}
	if _, err := NewStreamInitializer(&fakeJetStream{}, nil); err == nil {
		t.Error("expected error for nil config")
	}
}
