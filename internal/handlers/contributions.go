package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenalgeria/greenalgeria-backend/internal/db"
	"github.com/greenalgeria/greenalgeria-backend/internal/geo"
	"github.com/greenalgeria/greenalgeria-backend/internal/geocode"
	"github.com/greenalgeria/greenalgeria-backend/internal/models"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// Resolver resolves coordinates to place names. Satisfied by
// *geocode.Geocoder.
type Resolver interface {
	Resolve(ctx context.Context, lat, lng float64) geocode.Result
}

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ContributionHandler handles contribution intake and query requests.
type ContributionHandler struct {
	contributions  db.ContributionCollection
	geocoder       Resolver
	roundPrecision int
}

// NewContributionHandler creates a contribution handler. contributions may be
// nil when the store never came up; requests then get a 503.
func NewContributionHandler(contributions db.ContributionCollection, geocoder Resolver, roundPrecision int) *ContributionHandler {
	return &ContributionHandler{
		contributions:  contributions,
		geocoder:       geocoder,
		roundPrecision: roundPrecision,
	}
}

// Create handles POST /api/contributions. The payload is an arbitrary JSON
// object carrying at least lat and lng; extra fields are persisted as-is.
func (h *ContributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.contributions == nil {
		writeError(w, http.StatusServiceUnavailable, "database not initialized", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", nil)
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "empty payload", nil)
		return
	}

	lat, lng, details := validateCoordinates(payload)
	if len(details) > 0 {
		writeError(w, http.StatusBadRequest, "invalid coordinates", details)
		return
	}

	lat, lng = geo.Normalize(lat, lng, h.roundPrecision)

	doc := bson.M{}
	for k, v := range payload {
		doc[k] = v
	}
	doc["lat"] = lat
	doc["lng"] = lng
	doc["location"] = models.NewGeoPoint(lat, lng)
	doc["createdAt"] = time.Now()

	// Enrichment is best effort: a fully failed lookup leaves the record
	// without city/district/geocodedAt rather than with empty ones.
	place := h.geocoder.Resolve(r.Context(), lat, lng)
	if !place.Empty() {
		if place.City != "" {
			doc["city"] = place.City
		}
		if place.District != "" {
			doc["district"] = place.District
		}
		doc["geocodedAt"] = time.Now()
	}

	id, err := h.contributions.InsertContribution(r.Context(), doc)
	if err != nil {
		log.WithError(err).Error("failed to insert contribution")
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	log.WithField("insertedId", id.Hex()).Info("contribution inserted")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"insertedId": id.Hex(),
	})
}

// List handles GET /api/contributions. Returns up to limit most recently
// created records, newest first.
func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.contributions == nil {
		writeError(w, http.StatusServiceUnavailable, "database not initialized", nil)
		return
	}

	limit := clampLimit(r.URL.Query().Get("limit"))

	cursor, err := h.contributions.FindContributions(r.Context(), bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		log.WithError(err).Error("failed to query contributions")
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	defer cursor.Close(r.Context())

	docs := []bson.M{}
	if err := cursor.All(r.Context(), &docs); err != nil {
		log.WithError(err).Error("failed to read contributions")
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

// validateCoordinates checks lat/lng presence, parseability and range. Values
// may arrive as JSON numbers or numeric strings.
func validateCoordinates(payload map[string]interface{}) (lat, lng float64, details []FieldError) {
	lat, ok := parseCoordinate(payload["lat"])
	if !ok {
		details = append(details, FieldError{Field: "lat", Message: "lat is required and must be a finite number"})
	} else if lat < -90 || lat > 90 {
		details = append(details, FieldError{Field: "lat", Message: "lat must be between -90 and 90"})
	}

	lng, ok = parseCoordinate(payload["lng"])
	if !ok {
		details = append(details, FieldError{Field: "lng", Message: "lng is required and must be a finite number"})
	} else if lng < -180 || lng > 180 {
		details = append(details, FieldError{Field: "lng", Message: "lng must be between -180 and 180"})
	}

	return lat, lng, details
}

func parseCoordinate(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}

func clampLimit(raw string) int64 {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return int64(limit)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, details []FieldError) {
	body := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if len(details) > 0 {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
