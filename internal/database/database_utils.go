// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"fmt"
)

// Checkpoint forces a WAL checkpoint.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// GetDatabasePath returns the path to the database file.
func (db *DB) GetDatabasePath() string {
	return db.cfg.Path
}

// GetRecordCounts returns the row counts of the catalog tables.
func (db *DB) GetRecordCounts(ctx context.Context) (items, embeddings int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return 0, 0, fmt.Errorf("count items: %w", err)
	}
	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM item_embeddings").Scan(&embeddings); err != nil {
		return 0, 0, fmt.Errorf("count embeddings: %w", err)
	}
	return items, embeddings, nil
}
