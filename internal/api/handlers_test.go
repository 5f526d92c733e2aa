// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/eventprocessor"
	"github.com/tomtom215/cinerank/internal/middleware"
	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/recommend"
)

// fakeRecommender records calls and returns canned results.
type fakeRecommender struct {
	mu sync.Mutex

	snapshot *embedding.Snapshot
	err      error

	similarCalls  atomic.Int32
	userCalls     atomic.Int32
	recordCalls   atomic.Int32
	listCalls     atomic.Int32
	lastK         int
	lastRecord    recommend.RecordRequest
	lastFilter    models.InteractionFilter
	lastHistoryID string
}

func newFakeRecommender(t *testing.T, itemIDs ...string) *fakeRecommender {
	t.Helper()
	f := &fakeRecommender{snapshot: new(embedding.Snapshot)}
	if len(itemIDs) == 0 {
		return f
	}
	cat := &embedding.Catalog{}
	for i, id := range itemIDs {
		cat.Items = append(cat.Items, embedding.Item{ID: id, Vector: []float64{float64(i + 1), 1}})
	}
	snap, err := embedding.NewSnapshot(cat, 7, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	f.snapshot = snap
	return f
}

func (f *fakeRecommender) RecommendSimilar(_ context.Context, itemID string, k int) (*recommend.Response, error) {
	f.similarCalls.Add(1)
	f.mu.Lock()
	f.lastK = k
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Response{
		RequestID:      "req-1",
		Type:           recommend.QueryItemSimilar,
		SourceItemID:   itemID,
		K:              k,
		Items:          []recommend.ScoredItem{{ItemID: "m2", Score: 0.9}},
		CatalogVersion: 7,
		CacheHit:       true,
		LatencyMS:      3,
	}, nil
}

func (f *fakeRecommender) RecommendForUser(_ context.Context, userID string, k int) (*recommend.Response, error) {
	f.userCalls.Add(1)
	f.mu.Lock()
	f.lastK = k
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Response{
		Type:      recommend.QueryUserContent,
		UserID:    userID,
		K:         k,
		Items:     []recommend.ScoredItem{},
		ColdStart: true,
	}, nil
}

func (f *fakeRecommender) RecordInteraction(_ context.Context, req recommend.RecordRequest) (*models.Interaction, error) {
	f.recordCalls.Add(1)
	f.mu.Lock()
	f.lastRecord = req
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if req.Kind == models.KindRate && req.Rating == nil {
		return nil, fmt.Errorf("%w: rating required", recommend.ErrInvalidInteraction)
	}
	return &models.Interaction{
		ID:        "int-1",
		UserID:    req.UserID,
		ItemID:    req.ItemID,
		Kind:      req.Kind,
		Rating:    req.Rating,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeRecommender) ListInteractions(_ context.Context, userID string, filter models.InteractionFilter) (*models.InteractionPage, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	f.lastFilter = filter
	f.lastHistoryID = userID
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.InteractionPage{
		Items:      []models.Interaction{{ID: "int-1", UserID: userID, ItemID: "m1", Kind: models.KindView}},
		Pagination: models.NewPagination(1, 1, 20),
	}, nil
}

func (f *fakeRecommender) Snapshot() *embedding.Snapshot { return f.snapshot }

func (f *fakeRecommender) Stats() recommend.Stats {
	return recommend.Stats{ItemRequests: int64(f.similarCalls.Load()), CatalogItems: f.snapshot.Len()}
}

type fakeReloader struct {
	err     error
	reasons []string
}

func (f *fakeReloader) RequestCatalogReload(_ context.Context, reason string) error {
	f.reasons = append(f.reasons, reason)
	return f.err
}

type fakeEventHealth struct {
	health eventprocessor.OverallHealth
}

func (f *fakeEventHealth) Health(context.Context) eventprocessor.OverallHealth {
	return f.health
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestHandler(engine Recommender) *Handler {
	return NewHandler(engine, nil, nil, zerolog.Nop())
}

// serve routes req through the full router without rate limits.
func serve(t *testing.T, h *Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	rec := httptest.NewRecorder()
	NewRouter(h, mw).SetupChi().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v; body=%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestRecommendSimilar(t *testing.T) {
	engine := newFakeRecommender(t, "m1", "m2")
	h := newTestHandler(engine)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/similar/m1?k=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Errorf("status = %q, want success", env.Status)
	}
	if !env.Metadata.Cached || env.Metadata.QueryTimeMS != 3 {
		t.Errorf("metadata = %+v, want cached with query_time_ms=3", env.Metadata)
	}
	if env.Metadata.RequestID == "" || env.Metadata.RequestID != rec.Header().Get(middleware.RequestIDHeader) {
		t.Errorf("metadata request_id = %q, header = %q", env.Metadata.RequestID, rec.Header().Get(middleware.RequestIDHeader))
	}

	var resp recommend.Response
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.SourceItemID != "m1" || resp.K != 5 || len(resp.Items) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestRecommendSimilar_InvalidK(t *testing.T) {
	engine := newFakeRecommender(t, "m1")
	h := newTestHandler(engine)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/similar/m1?k=ten", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeValidation)
	}
	if engine.similarCalls.Load() != 0 {
		t.Error("engine should not be called for invalid parameters")
	}
}

func TestRecommendSimilar_KPassedThrough(t *testing.T) {
	// Clamping is the engine's job; the handler forwards k as given.
	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"?k=0", 0},
		{"?k=-3", -3},
		{"?k=500", 500},
	}
	for _, tt := range tests {
		t.Run("k"+tt.query, func(t *testing.T) {
			engine := newFakeRecommender(t, "m1")
			rec, _ := serve(t, newTestHandler(engine), httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/similar/m1"+tt.query, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if engine.lastK != tt.want {
				t.Errorf("k = %d, want %d", engine.lastK, tt.want)
			}
		})
	}
}

func TestEngineErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantCode       string
		wantRetryAfter bool
	}{
		{"not found", fmt.Errorf("%w: m9", recommend.ErrNotFound), http.StatusNotFound, ErrCodeNotFound, false},
		{"invalid interaction", recommend.ErrInvalidInteraction, http.StatusBadRequest, ErrCodeValidation, false},
		{"catalog unavailable", recommend.ErrCatalogUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, true},
		{"upstream timeout", fmt.Errorf("%w: %w", recommend.ErrUpstreamTimeout, context.DeadlineExceeded), http.StatusServiceUnavailable, ErrCodeServiceUnavailable, true},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, false},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeRecommender(t, "m1")
			engine.err = tt.err

			rec, env := serve(t, newTestHandler(engine), httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user/u1", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if got := rec.Header().Get("Retry-After") != ""; got != tt.wantRetryAfter {
				t.Errorf("Retry-After present = %v, want %v", got, tt.wantRetryAfter)
			}
		})
	}
}

func TestEngineErrorMapping_InternalMessageHidden(t *testing.T) {
	engine := newFakeRecommender(t, "m1")
	engine.err = errors.New("duckdb: connection refused at /var/lib/secret.db")

	_, env := serve(t, newTestHandler(engine), httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user/u1", nil))

	if env.Error == nil || strings.Contains(env.Error.Message, "secret") {
		t.Errorf("error message = %+v, internal detail must not leak", env.Error)
	}
}

func TestRecommendForUser(t *testing.T) {
	engine := newFakeRecommender(t, "m1")

	rec, env := serve(t, newTestHandler(engine), httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user/alice?k=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp recommend.Response
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.UserID != "alice" || !resp.ColdStart || resp.Items == nil {
		t.Errorf("response = %+v, want cold start for alice with empty items", resp)
	}
	if engine.lastK != 3 {
		t.Errorf("k = %d, want 3", engine.lastK)
	}
}

func TestRecordInteraction(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCalled bool
		check      func(t *testing.T, got recommend.RecordRequest)
	}{
		{
			name:       "view",
			body:       `{"item_id":"m1","kind":"view"}`,
			wantStatus: http.StatusCreated,
			wantCalled: true,
			check: func(t *testing.T, got recommend.RecordRequest) {
				if got.UserID != "alice" || got.ItemID != "m1" || got.Kind != models.KindView {
					t.Errorf("request = %+v", got)
				}
			},
		},
		{
			name:       "rate with half step",
			body:       `{"item_id":"m1","kind":"rate","rating":4.5}`,
			wantStatus: http.StatusCreated,
			wantCalled: true,
			check: func(t *testing.T, got recommend.RecordRequest) {
				if got.Kind != models.KindRate || got.Rating == nil || *got.Rating != 4.5 {
					t.Errorf("request = %+v, want rate 4.5", got)
				}
			},
		},
		{
			name:       "rating dropped for like",
			body:       `{"item_id":"m1","kind":"like","rating":9}`,
			wantStatus: http.StatusCreated,
			wantCalled: true,
			check: func(t *testing.T, got recommend.RecordRequest) {
				if got.Rating != nil {
					t.Errorf("rating = %v, want dropped", *got.Rating)
				}
			},
		},
		{"rate without rating", `{"item_id":"m1","kind":"rate"}`, http.StatusBadRequest, true, nil},
		{"rating off half step", `{"item_id":"m1","kind":"rate","rating":4.3}`, http.StatusBadRequest, false, nil},
		{"rating out of range", `{"item_id":"m1","kind":"rate","rating":5.5}`, http.StatusBadRequest, false, nil},
		{"unknown kind", `{"item_id":"m1","kind":"purchase"}`, http.StatusBadRequest, false, nil},
		{"missing item", `{"kind":"view"}`, http.StatusBadRequest, false, nil},
		{"unknown field", `{"item_id":"m1","kind":"view","extra":1}`, http.StatusBadRequest, false, nil},
		{"empty body", ``, http.StatusBadRequest, false, nil},
		{"trailing data", `{"item_id":"m1","kind":"view"}{}`, http.StatusBadRequest, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeRecommender(t, "m1")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/alice/interactions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec, env := serve(t, newTestHandler(engine), req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if called := engine.recordCalls.Load() > 0; called != tt.wantCalled {
				t.Errorf("engine called = %v, want %v", called, tt.wantCalled)
			}
			if tt.wantStatus >= 400 && (env.Error == nil || env.Error.Code != ErrCodeValidation) {
				t.Errorf("error = %+v, want %s", env.Error, ErrCodeValidation)
			}
			if tt.check != nil {
				tt.check(t, engine.lastRecord)
			}
		})
	}
}

func TestRecordInteraction_BodyTooLarge(t *testing.T) {
	engine := newFakeRecommender(t, "m1")
	body := `{"item_id":"` + strings.Repeat("x", maxBodyBytes) + `","kind":"view"}`

	rec, env := serve(t, newTestHandler(engine), httptest.NewRequest(http.MethodPost, "/api/v1/users/alice/interactions", bytes.NewBufferString(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeValidation)
	}
	if engine.recordCalls.Load() != 0 {
		t.Error("engine should not be called for an oversized body")
	}
}

func TestListInteractions(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFilter models.InteractionFilter
	}{
		{"defaults", "", http.StatusOK, models.InteractionFilter{}},
		{"kind and page", "?kind=rate&page=2&limit=5", http.StatusOK, models.InteractionFilter{Kind: models.KindRate, Page: 2, Limit: 5}},
		{"bad kind", "?kind=skip", http.StatusBadRequest, models.InteractionFilter{}},
		{"non-integer page", "?page=two", http.StatusBadRequest, models.InteractionFilter{}},
		{"zero limit", "?limit=0", http.StatusOK, models.InteractionFilter{}},
		{"negative page", "?page=-1", http.StatusBadRequest, models.InteractionFilter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeRecommender(t, "m1")

			rec, env := serve(t, newTestHandler(engine), httptest.NewRequest(http.MethodGet, "/api/v1/users/bob/interactions"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if engine.listCalls.Load() != 0 {
					t.Error("engine should not be called")
				}
				return
			}
			if engine.lastFilter != tt.wantFilter || engine.lastHistoryID != "bob" {
				t.Errorf("filter = %+v for %q, want %+v for bob", engine.lastFilter, engine.lastHistoryID, tt.wantFilter)
			}
			var page models.InteractionPage
			if err := json.Unmarshal(env.Data, &page); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if len(page.Items) != 1 || page.Pagination.TotalItems != 1 {
				t.Errorf("page = %+v", page)
			}
		})
	}
}

func TestRecommendationStats(t *testing.T) {
	engine := newFakeRecommender(t, "m1", "m2")
	h := newTestHandler(engine)
	monitor := middleware.NewLatencyMonitor(10, time.Second, zerolog.Nop())
	h.SetLatencyMonitor(monitor)

	// The first request populates the monitor through the router middleware.
	serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/similar/m1", nil))
	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats StatsResponse
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if stats.Engine.ItemRequests != 1 || stats.Engine.CatalogItems != 2 {
		t.Errorf("engine stats = %+v", stats.Engine)
	}
	if len(stats.Routes) == 0 {
		t.Error("routes should include the earlier request")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		items      []string
		events     *fakeEventHealth
		wantStatus int
		wantHealth string
	}{
		{"no catalog", nil, nil, http.StatusServiceUnavailable, HealthStatusDegraded},
		{"loaded", []string{"m1", "m2"}, nil, http.StatusOK, HealthStatusHealthy},
		{"loaded with healthy bus", []string{"m1"}, &fakeEventHealth{eventprocessor.OverallHealth{Healthy: true, Status: eventprocessor.HealthStatusHealthy}}, http.StatusOK, HealthStatusHealthy},
		{"unhealthy bus", []string{"m1"}, &fakeEventHealth{eventprocessor.OverallHealth{Healthy: false, Status: eventprocessor.HealthStatusUnhealthy}}, http.StatusOK, HealthStatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(newFakeRecommender(t, tt.items...))
			if tt.events != nil {
				h.SetEventHealth(tt.events)
			}

			rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var health HealthStatus
			if err := json.Unmarshal(env.Data, &health); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if health.Status != tt.wantHealth {
				t.Errorf("health status = %q, want %q", health.Status, tt.wantHealth)
			}
			if health.CatalogItems != len(tt.items) {
				t.Errorf("catalog_items = %d, want %d", health.CatalogItems, len(tt.items))
			}
			if (tt.events != nil) != (health.Events != nil) {
				t.Errorf("events = %+v", health.Events)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers missing on health endpoint")
			}
		})
	}
}

func TestHealthProbes(t *testing.T) {
	tests := []struct {
		path       string
		items      []string
		wantStatus int
	}{
		{"/api/v1/health/live", nil, http.StatusOK},
		{"/api/v1/health/live", []string{"m1"}, http.StatusOK},
		{"/api/v1/health/ready", nil, http.StatusServiceUnavailable},
		{"/api/v1/health/ready", []string{"m1"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.path, len(tt.items)), func(t *testing.T) {
			h := newTestHandler(newFakeRecommender(t, tt.items...))
			rec, _ := serve(t, h, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestReloadCatalog(t *testing.T) {
	t.Run("no reloader", func(t *testing.T) {
		h := newTestHandler(newFakeRecommender(t, "m1"))
		rec, _ := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("publish fails", func(t *testing.T) {
		h := newTestHandler(newFakeRecommender(t, "m1"))
		h.SetReloadRequester(&fakeReloader{err: errors.New("nats: no responders")})
		rec, env := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("Retry-After missing")
		}
		if env.Error == nil || strings.Contains(env.Error.Message, "nats") {
			t.Errorf("error = %+v", env.Error)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		reloader := &fakeReloader{}
		h := newTestHandler(newFakeRecommender(t, "m1"))
		h.SetReloadRequester(reloader)

		rec, env := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", rec.Code)
		}
		if len(reloader.reasons) != 1 || reloader.reasons[0] != "api" {
			t.Errorf("reasons = %v, want [api]", reloader.reasons)
		}
		var body ReloadAccepted
		if err := json.Unmarshal(env.Data, &body); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if body.CatalogVersion != 7 {
			t.Errorf("catalog_version = %d, want 7", body.CatalogVersion)
		}
	})

	t.Run("get not allowed", func(t *testing.T) {
		h := newTestHandler(newFakeRecommender(t, "m1"))
		h.SetReloadRequester(&fakeReloader{})
		rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/reload", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
			t.Errorf("error = %+v", env.Error)
		}
	})
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(newFakeRecommender(t, "m1"))
	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestWebSocket_NoHub(t *testing.T) {
	h := newTestHandler(newFakeRecommender(t, "m1"))
	rec, _ := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
