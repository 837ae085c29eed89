package main

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJitterLocation_StaysWithinRadius(t *testing.T) {
	base := Location{Lat: 36.7538, Lng: 3.0588}
	for i := 0; i < 100; i++ {
		got := jitterLocation(base, 3000)
		dLatMeters := math.Abs(got.Lat-base.Lat) * 111320.0
		dLngMeters := math.Abs(got.Lng-base.Lng) * 111320.0 * math.Cos(base.Lat*math.Pi/180)
		if dLatMeters > 3000 || dLngMeters > 3000 {
			t.Errorf("jitter exceeded radius: dLat=%.0fm dLng=%.0fm", dLatMeters, dLngMeters)
		}
	}
}

func TestRandomContribution_ValidCoordinates(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := randomContribution()
		if c.Lat < -90 || c.Lat > 90 {
			t.Errorf("lat out of range: %f", c.Lat)
		}
		if c.Lng < -180 || c.Lng > 180 {
			t.Errorf("lng out of range: %f", c.Lng)
		}
		if c.Quantity < 1 {
			t.Errorf("quantity must be positive, got %d", c.Quantity)
		}
		if c.Name == "" || c.Type == "" {
			t.Error("name and type must be set")
		}
	}
}

func TestPostContribution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contributions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var c Contribution
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "insertedId": "abc123"})
	}))
	defer srv.Close()

	id, err := postContribution(srv.URL, randomContribution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc123" {
		t.Errorf("expected insertedId abc123, got %s", id)
	}
}

func TestPostContribution_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := postContribution(srv.URL, randomContribution()); err == nil {
		t.Fatal("expected error for rejected contribution")
	}
}
