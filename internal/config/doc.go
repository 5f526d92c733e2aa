// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package config provides centralized configuration management for Cinerank.

Configuration is loaded by LoadWithKoanf in three layers, each overriding
the previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/cinerank/config.yaml or /etc/cinerank/config.yml
 3. Environment variables listed in envMappings

Unmapped environment variables are ignored.

# Sections

  - server: HTTP listener and environment mode
  - logging: zerolog level, format and caller
  - catalog: embedding source (DuckDB or JSON file) and reload policy
  - database: DuckDB catalog database
  - interactions: BadgerDB interaction log
  - recommend: result limits, cache TTLs, profile weights, circuit breakers
  - nats: optional NATS JetStream event bus
  - security: CORS and rate limiting

# Example

	catalog:
	  source: database
	  seed_path: /data/catalog.json
	  reload_interval: 15m
	recommend:
	  cache:
	    user_ttl: 1h
	    item_ttl: 24h
	  profile:
	    weights:
	      view: 0.3
	      like: 0.8
	      rate: 1.0

Environment variables use flat names:

	DUCKDB_PATH=/data/cinerank.duckdb
	RECOMMEND_WEIGHT_LIKE=0.9
	CORS_ORIGINS=https://app.example.com,https://admin.example.com

All sections are validated by Config.Validate before LoadWithKoanf returns.
*/
package config
