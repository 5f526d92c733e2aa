// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/metrics"
	"github.com/tomtom215/cinerank/internal/models"
)

// genreSep joins genres in the items table (MovieLens style "Drama|Romance").
const genreSep = "|"

// CatalogItem is one catalog row: metadata, popularity and embedding.
type CatalogItem struct {
	models.ItemMetadata

	// Popularity orders the cold-start fallback. Higher is more popular.
	Popularity float64 `json:"popularity"`

	// Vector is the item embedding. Every item in one catalog shares its dimension.
	Vector []float64 `json:"vector"`

	// Model names the embedding model that produced Vector.
	Model string `json:"model,omitempty"`
}

// Validate checks a single item.
func (c *CatalogItem) Validate() error {
	if strings.TrimSpace(c.ItemID) == "" {
		return fmt.Errorf("%w: empty item id", ErrInvalidItem)
	}
	if len(c.Vector) == 0 {
		return fmt.Errorf("%w: %s has no vector", ErrInvalidItem, c.ItemID)
	}
	for _, x := range c.Vector {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s has a non-finite component", ErrInvalidItem, c.ItemID)
		}
	}
	if math.IsNaN(c.Popularity) || math.IsInf(c.Popularity, 0) {
		return fmt.Errorf("%w: %s has a non-finite popularity", ErrInvalidItem, c.ItemID)
	}
	return nil
}

// UpsertItems inserts or replaces catalog items in one transaction.
// All vectors must share one dimension, which must match the stored catalog.
func (db *DB) UpsertItems(ctx context.Context, items []CatalogItem) (n int, err error) {
	if len(items) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "items", time.Since(start), err) }()

	dim := len(items[0].Vector)
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return 0, err
		}
		if len(items[i].Vector) != dim {
			return 0, fmt.Errorf("%w: %s has dimension %d, want %d", ErrInvalidItem, items[i].ItemID, len(items[i].Vector), dim)
		}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stored, err := db.storedDimension(ctx)
	if err != nil {
		return 0, err
	}
	if stored != 0 && stored != dim {
		return 0, fmt.Errorf("%w: dimension %d does not match stored catalog dimension %d", ErrInvalidItem, dim, stored)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (item_id, title, genres, year, popularity, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (item_id) DO UPDATE SET
			title = excluded.title,
			genres = excluded.genres,
			year = excluded.year,
			popularity = excluded.popularity,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare item upsert: %w", err)
	}
	defer closeWithLog(itemStmt, &db.logger, "prepared statement")

	vecStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO item_embeddings (item_id, vector, model, updated_at)
		VALUES (?, ?::DOUBLE[], ?, CURRENT_TIMESTAMP)
		ON CONFLICT (item_id) DO UPDATE SET
			vector = excluded.vector,
			model = excluded.model,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare embedding upsert: %w", err)
	}
	defer closeWithLog(vecStmt, &db.logger, "prepared statement")

	for i := range items {
		it := &items[i]

		var year sql.NullInt64
		if it.Year > 0 {
			year = sql.NullInt64{Int64: int64(it.Year), Valid: true}
		}
		if _, err = itemStmt.ExecContext(ctx, it.ItemID, it.Title, strings.Join(it.Genres, genreSep), year, it.Popularity); err != nil {
			return 0, fmt.Errorf("upsert item %s: %w", it.ItemID, err)
		}

		var vec []byte
		if vec, err = json.Marshal(it.Vector); err != nil {
			return 0, fmt.Errorf("encode vector %s: %w", it.ItemID, err)
		}
		if _, err = vecStmt.ExecContext(ctx, it.ItemID, string(vec), it.Model); err != nil {
			return 0, fmt.Errorf("upsert embedding %s: %w", it.ItemID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		if isTransactionConflict(err) {
			db.logger.Warn().Err(err).Msg("catalog upsert conflicted with a concurrent write")
		}
		return 0, fmt.Errorf("commit: %w", err)
	}

	db.logger.Info().Int("items", len(items)).Int("dimension", dim).Msg("catalog items upserted")
	return len(items), nil
}

// LoadCatalog reads every embedding. It implements embedding.Source.
func (db *DB) LoadCatalog(ctx context.Context) (cat *embedding.Catalog, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("load_catalog", "item_embeddings", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// Vectors are read back as their text form and decoded as JSON arrays.
	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, vector::VARCHAR FROM item_embeddings ORDER BY item_id`)
	if err != nil {
		if isConnectionError(err) {
			db.logger.Error().Err(err).Msg("catalog database connection lost")
		}
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	cat = &embedding.Catalog{}
	for rows.Next() {
		var (
			id  string
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}

		var vec []float64
		if err := json.Unmarshal([]byte(raw), &vec); err != nil {
			return nil, fmt.Errorf("decode embedding %s: %w", id, err)
		}
		cat.Items = append(cat.Items, embedding.Item{ID: id, Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}

	if len(cat.Items) > 0 {
		cat.Dimension = len(cat.Items[0].Vector)
	}
	return cat, nil
}

// FetchMetadata returns metadata for the ids that exist in the catalog.
// It implements recommend.MetadataSource.
func (db *DB) FetchMetadata(ctx context.Context, ids []string) (out map[string]models.ItemMetadata, err error) {
	out = make(map[string]models.ItemMetadata, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("fetch_metadata", "items", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_id, title, genres, year FROM items WHERE item_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m      models.ItemMetadata
			genres string
			year   sql.NullInt64
		)
		if err := rows.Scan(&m.ItemID, &m.Title, &genres, &year); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		if genres != "" {
			m.Genres = strings.Split(genres, genreSep)
		}
		if year.Valid {
			m.Year = int(year.Int64)
		}
		out[m.ItemID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata: %w", err)
	}
	return out, nil
}

// Popular returns up to k item ids with embeddings, most popular first,
// skipping ids in exclude. Ties are broken by item id. It implements
// recommend.FallbackProvider.
func (db *DB) Popular(ctx context.Context, k int, exclude map[string]struct{}) (ids []string, err error) {
	if k <= 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("popular", "items", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.item_id
		FROM items i
		JOIN item_embeddings e ON e.item_id = i.item_id
		ORDER BY i.popularity DESC, i.item_id ASC
		LIMIT ?`, k+len(exclude))
	if err != nil {
		return nil, fmt.Errorf("query popular: %w", err)
	}
	defer rows.Close()

	ids = make([]string, 0, k)
	for rows.Next() && len(ids) < k {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan popular: %w", err)
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular: %w", err)
	}
	return ids, nil
}

// storedDimension returns the dimension of any stored embedding, or zero
// when the catalog is empty.
func (db *DB) storedDimension(ctx context.Context) (int, error) {
	var dim sql.NullInt64
	err := db.conn.QueryRowContext(ctx, `SELECT len(vector) FROM item_embeddings LIMIT 1`).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query stored dimension: %w", err)
	}
	return int(dim.Int64), nil
}
