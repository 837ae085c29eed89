package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint duplicates a contribution's coordinates in a GeoJSON-style shape
// so the collection can carry a 2dsphere index. Coordinates are always
// [lng, lat] order, never the reverse.
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
	Lat         float64    `bson:"lat" json:"lat"`
	Lng         float64    `bson:"lng" json:"lng"`
}

// NewGeoPoint builds the location sub-document for a normalized coordinate
// pair.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: [2]float64{lng, lat},
		Lat:         lat,
		Lng:         lng,
	}
}

// Contribution represents a tree-planting report as persisted. Clients may
// attach arbitrary extra fields at intake; this struct mirrors the known ones
// for the seeder and the migration job. Records are created once, optionally
// rewritten once by the image migration job, and never otherwise updated or
// deleted.
type Contribution struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Lat      float64            `bson:"lat" json:"lat"`
	Lng      float64            `bson:"lng" json:"lng"`
	Location GeoPoint           `bson:"location" json:"location"`

	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
	Type     string `bson:"type,omitempty" json:"type,omitempty"`
	Quantity int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Photo    string `bson:"photo,omitempty" json:"photo,omitempty"`

	City       string     `bson:"city,omitempty" json:"city,omitempty"`
	District   string     `bson:"district,omitempty" json:"district,omitempty"`
	GeocodedAt *time.Time `bson:"geocodedAt,omitempty" json:"geocodedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	// Stamped by the image migration job when an inline photo is rewritten
	// to a reference URL.
	MigratedAt     *time.Time `bson:"migratedAt,omitempty" json:"migratedAt,omitempty"`
	OriginalFormat string     `bson:"originalFormat,omitempty" json:"originalFormat,omitempty"`
}
