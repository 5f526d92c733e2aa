// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// importBatchSize bounds the rows written per transaction during import.
const importBatchSize = 500

// ImportFile upserts the catalog items in a JSON file holding an array of
// CatalogItem. It returns the number of items written.
func (db *DB) ImportFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog file: %w", err)
	}

	var items []CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("decode catalog file: %w", err)
	}

	total := 0
	for start := 0; start < len(items); start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		end := min(start+importBatchSize, len(items))
		n, err := db.UpsertItems(ctx, items[start:end])
		if err != nil {
			return total, fmt.Errorf("import batch at %d: %w", start, err)
		}
		total += n
	}

	db.logger.Info().Str("path", path).Int("items", total).Msg("catalog file imported")
	return total, nil
}
