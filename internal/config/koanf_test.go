// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.Source != CatalogSourceDatabase {
		t.Errorf("Catalog.Source = %q, want database", cfg.Catalog.Source)
	}
	if cfg.Database.Path != "/data/cinerank.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should be false by default")
	}

	// Recommendation defaults
	r := cfg.Recommend
	if r.Limits.DefaultK != 10 || r.Limits.MaxK != 50 {
		t.Errorf("Limits = %+v, want default_k 10, max_k 50", r.Limits)
	}
	if r.Cache.UserTTL != time.Hour || r.Cache.ItemTTL != 24*time.Hour {
		t.Errorf("Cache TTLs = %v / %v, want 1h / 24h", r.Cache.UserTTL, r.Cache.ItemTTL)
	}
	w := r.Profile.Weights
	if w.View != 0.3 || w.Like != 0.8 || w.Rate != 1.0 {
		t.Errorf("Weights = %+v, want view 0.3 like 0.8 rate 1.0", w)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"DUCKDB_PATH", "database.path"},
		{"CATALOG_SOURCE", "catalog.source"},
		{"INTERACTIONS_PATH", "interactions.path"},
		{"RECOMMEND_USER_TTL", "recommend.cache.user_ttl"},
		{"RECOMMEND_WEIGHT_LIKE", "recommend.profile.weights.like"},
		{"NATS_EMBEDDED", "nats.embedded_server"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"cors_origins", "security.cors_origins"},

		// Unmapped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestEnvMappingsTargetKnownKeys checks every mapping against the default key set.
func TestEnvMappingsTargetKnownKeys(t *testing.T) {
	k := mustLoadDefaults(t)
	for env, path := range envMappings {
		if !k.Exists(path) {
			t.Errorf("env %s maps to unknown key %s", strings.ToUpper(env), path)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("env path", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, path)
		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing env path falls through", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
		saved := DefaultConfigPaths
		DefaultConfigPaths = []string{filepath.Join(dir, "nope.yaml")}
		defer func() { DefaultConfigPaths = saved }()

		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("RECOMMEND_USER_TTL", "30m")
	t.Setenv("RECOMMEND_WEIGHT_LIKE", "0.9")
	t.Setenv("RECOMMEND_FALLBACK_POPULAR", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Recommend.Cache.UserTTL != 30*time.Minute {
		t.Errorf("UserTTL = %v, want 30m", cfg.Recommend.Cache.UserTTL)
	}
	if cfg.Recommend.Profile.Weights.Like != 0.9 {
		t.Errorf("Weights.Like = %v, want 0.9", cfg.Recommend.Profile.Weights.Like)
	}
	if !cfg.Recommend.FallbackPopular {
		t.Error("FallbackPopular = false, want true")
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Untouched values keep their defaults.
	if cfg.Recommend.Cache.ItemTTL != 24*time.Hour {
		t.Errorf("ItemTTL = %v, want 24h", cfg.Recommend.Cache.ItemTTL)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: 7000
catalog:
  source: file
  file_path: /data/embeddings.json
  reload_interval: 15m
recommend:
  limits:
    max_k: 25
  profile:
    window: 100
nats:
  enabled: false
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Catalog.Source != CatalogSourceFile || cfg.Catalog.FilePath != "/data/embeddings.json" {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Catalog.ReloadInterval != 15*time.Minute {
		t.Errorf("ReloadInterval = %v, want 15m", cfg.Catalog.ReloadInterval)
	}
	if cfg.Recommend.Limits.MaxK != 25 || cfg.Recommend.Limits.DefaultK != 10 {
		t.Errorf("Limits = %+v", cfg.Recommend.Limits)
	}
	if cfg.Recommend.Profile.Window != 100 {
		t.Errorf("Profile.Window = %d, want 100", cfg.Recommend.Profile.Window)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\nlogging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want env value 7100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want file value warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "HTTP_PORT"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"file source without path", map[string]string{"CATALOG_SOURCE": "file"}, "CATALOG_FILE"},
		{"unknown source", map[string]string{"CATALOG_SOURCE": "s3"}, "CATALOG_SOURCE"},
		{"negative like weight", map[string]string{"RECOMMEND_WEIGHT_LIKE": "-1"}, "recommend config"},
		{"max_k below default", map[string]string{"RECOMMEND_MAX_K": "5"}, "max_k"},
		{"wildcard cors in production", map[string]string{"ENVIRONMENT": "production"}, "CORS_ORIGINS"},
		{"nats with bad url", map[string]string{"NATS_ENABLED": "true", "NATS_EMBEDDED": "false", "NATS_URL": "http://x"}, "NATS_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "none.yaml"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() error = nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestProcessSliceFields(t *testing.T) {
	k := mustLoadDefaults(t)
	if err := k.Set("security.trusted_proxies", "10.0.0.1, ,10.0.0.2"); err != nil {
		t.Fatal(err)
	}

	if err := processSliceFields(k); err != nil {
		t.Fatalf("processSliceFields() error = %v", err)
	}

	got := k.Strings("security.trusted_proxies")
	want := []string{"10.0.0.1", "10.0.0.2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trusted_proxies = %v, want %v", got, want)
	}
}
