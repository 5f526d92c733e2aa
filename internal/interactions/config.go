// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package interactions

import (
	"fmt"
	"time"
)

// Config holds BadgerDB settings for the interaction log.
type Config struct {
	// Path is the directory where BadgerDB stores its files.
	// Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps the log in memory only. Intended for tests and demos.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites forces fsync after every write.
	SyncWrites bool `koanf:"sync_writes"`

	// Compression enables Snappy block compression.
	Compression bool `koanf:"compression"`

	// MemTableSize is the size of each memtable in bytes.
	MemTableSize int64 `koanf:"memtable_size"`

	// ValueLogFileSize is the size of each value log file in bytes.
	ValueLogFileSize int64 `koanf:"vlog_size"`

	// NumCompactors is the number of BadgerDB compaction workers (minimum 2).
	NumCompactors int `koanf:"num_compactors"`

	// GCInterval is the time between value log GC runs. Zero disables.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64 `koanf:"gc_ratio"`

	// CloseTimeout bounds how long Close waits for BadgerDB.
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Path:             "/data/interactions",
		SyncWrites:       true,
		Compression:      true,
		MemTableSize:     16 << 20,
		ValueLogFileSize: 64 << 20,
		NumCompactors:    2,
		GCInterval:       10 * time.Minute,
		GCRatio:          0.5,
		CloseTimeout:     30 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return &ConfigError{Field: "path", Message: "required unless in_memory is set"}
	}
	if c.MemTableSize < 1<<20 {
		return &ConfigError{Field: "memtable_size", Message: fmt.Sprintf("must be at least 1MB, got %d", c.MemTableSize)}
	}
	if c.ValueLogFileSize < 1<<20 {
		return &ConfigError{Field: "vlog_size", Message: fmt.Sprintf("must be at least 1MB, got %d", c.ValueLogFileSize)}
	}
	if c.NumCompactors < 2 {
		return &ConfigError{Field: "num_compactors", Message: "must be at least 2"}
	}
	if c.GCInterval < 0 {
		return &ConfigError{Field: "gc_interval", Message: "must be non-negative"}
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return &ConfigError{Field: "gc_ratio", Message: fmt.Sprintf("must be in (0, 1), got %g", c.GCRatio)}
	}
	return nil
}

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "interactions config: " + e.Field + ": " + e.Message
}
