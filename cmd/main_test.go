package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/greenalgeria/greenalgeria-backend/internal/config"
	"github.com/greenalgeria/greenalgeria-backend/internal/geocode"
)

type nullResolver struct{}

func (nullResolver) Resolve(ctx context.Context, lat, lng float64) geocode.Result {
	return geocode.Result{}
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Load()
	cfg.UploadsDir = t.TempDir()
	cfg.StaticDir = t.TempDir()
	return cfg
}

func TestRouter_Health(t *testing.T) {
	router := newRouter(testConfig(t), nil, nullResolver{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestRouter_ContributionsUnavailableWithoutStore(t *testing.T) {
	router := newRouter(testConfig(t), nil, nullResolver{})

	body := bytes.NewBufferString(`{"lat": 36.75, "lng": 3.04}`)
	req := httptest.NewRequest(http.MethodPost, "/api/contributions", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/contributions", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newRouter(testConfig(t), nil, nullResolver{})

	req := httptest.NewRequest(http.MethodDelete, "/api/contributions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
