// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package database

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "256MB",
		Threads:                2,
		PreserveInsertionOrder: true,
	}
	db, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func item(id, title string, popularity float64, vec ...float64) CatalogItem {
	return CatalogItem{
		ItemMetadata: models.ItemMetadata{ItemID: id, Title: title, Genres: []string{"Drama"}, Year: 1990},
		Popularity:   popularity,
		Vector:       vec,
		Model:        "test",
	}
}

func seedCatalog(t *testing.T, db *DB) {
	t.Helper()
	items := []CatalogItem{
		item("A", "Alien", 50, 1, 0),
		item("B", "Brazil", 90, 0, 1),
		item("C", "Casablanca", 70, 1, 1),
		item("D", "Dune", 70, 0.25, -0.125),
	}
	items[2].Genres = []string{"Drama", "Romance"}
	items[3].Year = 0
	if _, err := db.UpsertItems(context.Background(), items); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
}

func TestNew_AppliesMigrations(t *testing.T) {
	db := setupTestDB(t)

	version, err := db.GetCurrentSchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
	}
	if want := len(db.getMigrations()); version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}

	// Re-running is a no-op.
	if err := db.runVersionedMigrations(); err != nil {
		t.Errorf("second migration run error = %v", err)
	}
}

func TestNew_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1}

	db, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := db.UpsertItems(context.Background(), []CatalogItem{item("A", "Alien", 1, 1, 2)}); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	items, embeddings, err := reopened.GetRecordCounts(context.Background())
	if err != nil || items != 1 || embeddings != 1 {
		t.Errorf("GetRecordCounts() = %d, %d, %v, want 1, 1", items, embeddings, err)
	}
}

func TestDB_LoadCatalog(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	cat, err := db.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if cat.Dimension != 2 || len(cat.Items) != 4 {
		t.Fatalf("catalog = dim %d, %d items", cat.Dimension, len(cat.Items))
	}
	if cat.Items[0].ID != "A" || !reflect.DeepEqual(cat.Items[0].Vector, []float64{1, 0}) {
		t.Errorf("first item = %+v", cat.Items[0])
	}
	if !reflect.DeepEqual(cat.Items[3].Vector, []float64{0.25, -0.125}) {
		t.Errorf("vector round trip = %v", cat.Items[3].Vector)
	}
}

func TestDB_LoadCatalog_Empty(t *testing.T) {
	db := setupTestDB(t)

	cat, err := db.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(cat.Items) != 0 {
		t.Errorf("items = %d, want 0", len(cat.Items))
	}
}

func TestDB_UpsertItems_Replaces(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	updated := item("A", "Aliens", 99, 0.5, 0.5)
	if _, err := db.UpsertItems(ctx, []CatalogItem{updated}); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}

	meta, err := db.FetchMetadata(ctx, []string{"A"})
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta["A"].Title != "Aliens" {
		t.Errorf("title = %q, want Aliens", meta["A"].Title)
	}

	cat, _ := db.LoadCatalog(ctx)
	if len(cat.Items) != 4 || !reflect.DeepEqual(cat.Items[0].Vector, []float64{0.5, 0.5}) {
		t.Errorf("after upsert: %d items, A = %v", len(cat.Items), cat.Items[0].Vector)
	}
}

func TestDB_UpsertItems_Invalid(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	tests := []struct {
		name  string
		items []CatalogItem
	}{
		{"empty id", []CatalogItem{item("", "x", 0, 1, 1)}},
		{"no vector", []CatalogItem{item("X", "x", 0)}},
		{"nan component", []CatalogItem{item("X", "x", 0, math.NaN(), 1)}},
		{"infinite popularity", []CatalogItem{item("X", "x", math.Inf(1), 1, 1)}},
		{"mixed dimensions", []CatalogItem{item("X", "x", 0, 1, 1), item("Y", "y", 0, 1, 1, 1)}},
		{"dimension mismatch with stored", []CatalogItem{item("X", "x", 0, 1, 1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.UpsertItems(context.Background(), tt.items)
			if !errors.Is(err, ErrInvalidItem) {
				t.Errorf("error = %v, want ErrInvalidItem", err)
			}
		})
	}

	items, _, _ := db.GetRecordCounts(context.Background())
	if items != 4 {
		t.Errorf("invalid upserts changed the catalog: %d items", items)
	}
}

func TestDB_FetchMetadata(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	meta, err := db.FetchMetadata(context.Background(), []string{"C", "D", "missing"})
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if len(meta) != 2 {
		t.Fatalf("got %d entries, want 2", len(meta))
	}
	if c := meta["C"]; c.Title != "Casablanca" || !reflect.DeepEqual(c.Genres, []string{"Drama", "Romance"}) || c.Year != 1990 {
		t.Errorf("C = %+v", c)
	}
	if meta["D"].Year != 0 {
		t.Errorf("D year = %d, want 0 for NULL", meta["D"].Year)
	}

	empty, err := db.FetchMetadata(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("FetchMetadata(nil) = %v, %v", empty, err)
	}
}

func TestDB_Popular(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	tests := []struct {
		name    string
		k       int
		exclude map[string]struct{}
		want    []string
	}{
		{"top two", 2, nil, []string{"B", "C"}},
		{"tie broken by id", 3, nil, []string{"B", "C", "D"}},
		{"excluded skipped", 2, map[string]struct{}{"B": {}}, []string{"C", "D"}},
		{"more than catalog", 10, nil, []string{"B", "C", "D", "A"}},
		{"zero k", 0, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Popular(ctx, tt.k, tt.exclude)
			if err != nil {
				t.Fatalf("Popular() error = %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("Popular() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDB_ImportFile(t *testing.T) {
	db := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `[
		{"item_id": "m1", "title": "Toy Story", "genres": ["Animation", "Comedy"], "year": 1995, "popularity": 10, "vector": [0.1, 0.2, 0.3]},
		{"item_id": "m2", "title": "Heat", "genres": ["Crime"], "year": 1995, "popularity": 5, "vector": [0.3, 0.2, 0.1]}
	]`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := db.ImportFile(context.Background(), path)
	if err != nil || n != 2 {
		t.Fatalf("ImportFile() = %d, %v", n, err)
	}

	cat, _ := db.LoadCatalog(context.Background())
	if cat.Dimension != 3 || len(cat.Items) != 2 {
		t.Errorf("catalog after import = dim %d, %d items", cat.Dimension, len(cat.Items))
	}

	if _, err := db.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportFile() on missing file returned nil error")
	}
}

func TestDB_CanceledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := db.LoadCatalog(ctx); err == nil {
		t.Error("LoadCatalog() with canceled context returned nil error")
	}
}
