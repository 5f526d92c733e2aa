// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package database holds the item catalog in DuckDB.
//
// # Overview
//
// The catalog is the system of record for item metadata, the popularity
// signal and the item embeddings. The recommendation engine never queries it
// per request for scoring; it bulk-loads the embeddings into an in-memory
// snapshot and consults the database only to decorate results and to serve
// the cold-start fallback.
//
// # Roles
//
// *DB implements three engine-facing interfaces:
//   - embedding.Source via LoadCatalog (bulk load of item_embeddings)
//   - recommend.MetadataSource via FetchMetadata (titles, genres, year)
//   - recommend.FallbackProvider via Popular (items ordered by popularity)
//
// # Files
//
//   - database.go: lifecycle (open, close, ping)
//   - database_connection.go: pool settings and query deadlines
//   - database_schema.go: table and index DDL
//   - migrations.go: versioned schema migrations
//   - catalog.go: item upsert and the engine-facing reads
//   - catalog_import.go: bulk import from a JSON file
//
// # Vectors
//
// Embeddings live in a DOUBLE[] column. They are written by casting a JSON
// array parameter (?::DOUBLE[]) and read back through their VARCHAR form,
// which keeps the driver boundary to plain strings.
//
// # Thread Safety
//
// *DB is safe for concurrent use. Writes to the catalog run in a single
// transaction per UpsertItems call.
package database
