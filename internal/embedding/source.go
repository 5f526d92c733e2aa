// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Source bulk-loads the full catalog. Implementations must honor ctx.
type Source interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*Catalog, error)

// LoadCatalog calls f(ctx).
func (f SourceFunc) LoadCatalog(ctx context.Context) (*Catalog, error) {
	return f(ctx)
}

// FileSource reads a catalog from a JSON document shaped like Catalog.
// It is intended for local development and fixtures.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// LoadCatalog reads and decodes the file.
func (f *FileSource) LoadCatalog(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return &cat, nil
}
