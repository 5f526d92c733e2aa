// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
database_schema.go - Catalog Schema

Tables:
  - items: descriptive metadata and the popularity signal for the fallback
  - item_embeddings: one fixed-dimension DOUBLE[] vector per item

The schema is created by the versioned migrations in migrations.go so an
existing database file picks up later changes on startup.

Index Strategy:
  - items(popularity DESC) for the cold-start fallback scan
  - item_embeddings is always read in full, so it carries only its key
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
	item_id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	genres TEXT NOT NULL DEFAULT '',
	year INTEGER,
	popularity DOUBLE NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const createEmbeddingsTable = `
CREATE TABLE IF NOT EXISTS item_embeddings (
	item_id TEXT PRIMARY KEY,
	vector DOUBLE[] NOT NULL,
	model TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const createPopularityIndex = `
CREATE INDEX IF NOT EXISTS idx_items_popularity ON items (popularity DESC);
`
