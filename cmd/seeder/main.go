package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Location is a latitude/longitude pair used for seeding.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Contribution is the payload posted to the intake endpoint.
type Contribution struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Quantity int     `json:"quantity"`
	Address  string  `json:"address,omitempty"`
}

// Seed locations around Algerian cities
var cities = []Location{
	{Lat: 36.7538, Lng: 3.0588},   // Algiers
	{Lat: 35.6969, Lng: -0.6331},  // Oran
	{Lat: 36.3650, Lng: 6.6147},   // Constantine
	{Lat: 36.7508, Lng: 5.0567},   // Béjaïa
	{Lat: 35.5550, Lng: 6.1741},   // Batna
	{Lat: 36.1898, Lng: 5.4108},   // Sétif
	{Lat: 34.8828, Lng: -1.3167},  // Tlemcen
	{Lat: 36.9000, Lng: 7.7667},   // Annaba
	{Lat: 34.8480, Lng: 5.7280},   // Biskra
	{Lat: 31.6110, Lng: -2.2300},  // Béchar
	{Lat: 36.4720, Lng: 2.8289},   // Blida
	{Lat: 36.7169, Lng: 4.0497},   // Tizi Ouzou
}

var treeTypes = []string{"olive", "palm", "cedar", "pine", "citrus", "argan", "eucalyptus"}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rand.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lng: base.Lng + dLng}
}

func randomContribution() Contribution {
	loc := jitterLocation(cities[rand.Intn(len(cities))], 3000)
	return Contribution{
		Lat:      loc.Lat,
		Lng:      loc.Lng,
		Name:     fmt.Sprintf("%s planting #%d", treeTypes[rand.Intn(len(treeTypes))], rand.Intn(10000)),
		Type:     treeTypes[rand.Intn(len(treeTypes))],
		Quantity: 1 + rand.Intn(20),
	}
}

func postContribution(apiURL string, c Contribution) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal contribution: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiURL+"/api/contributions", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to post contribution: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("contribution rejected with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	id, ok := result["insertedId"].(string)
	if !ok {
		return "", fmt.Errorf("invalid insertedId in response")
	}
	return id, nil
}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:4000"
	}
	count := 20
	if v := os.Getenv("SEED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}
	interval := 600 * time.Millisecond
	if v := os.Getenv("SEED_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			interval = time.Duration(n) * time.Millisecond
		}
	}

	log.WithFields(log.Fields{
		"api_url":  apiURL,
		"count":    count,
		"interval": interval,
	}).Info("Starting contribution seeding")

	seeded := 0
	for i := 0; i < count; i++ {
		c := randomContribution()
		id, err := postContribution(apiURL, c)
		if err != nil {
			log.WithError(err).Error("Failed to seed contribution")
		} else {
			seeded++
			log.WithFields(log.Fields{
				"insertedId": id,
				"type":       c.Type,
				"quantity":   c.Quantity,
			}).Info("Seeded contribution")
		}
		time.Sleep(interval)
	}

	log.WithField("seeded", seeded).Info("Contribution seeding completed")
}
