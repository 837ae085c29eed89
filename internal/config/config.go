package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every knob the backend reads from the environment.
type Config struct {
	Port    string
	BaseURL string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	NominatimURL     string
	NominatimUA      string
	NominatimMinGap  time.Duration
	NominatimTimeout time.Duration

	// GeoRoundPrecision is the number of decimals coordinates are rounded to
	// before storage. GeoCachePrecision is coarser and only used for geocode
	// cache keys, so nearby points share one cache entry.
	GeoRoundPrecision int
	GeoCachePrecision int
	GeoCacheTTL       time.Duration

	UploadsDir string
	StaticDir  string
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Info("loaded configuration from .env")
	}

	return Config{
		Port:    getEnv("PORT", "4000"),
		BaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:4000"), "/"),

		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "greenalgeriaDB"),
		MongoCollection: getEnv("MONGO_COLLECTION", "contributions"),

		NominatimURL:     getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUA:      getEnv("NOMINATIM_UA", "GreenAlgeria/1.0 (+https://greenalgeria.onrender.com)"),
		NominatimMinGap:  time.Duration(getEnvInt("NOMINATIM_MIN_GAP_MS", 500)) * time.Millisecond,
		NominatimTimeout: time.Duration(getEnvInt("NOMINATIM_TIMEOUT_MS", 8000)) * time.Millisecond,

		GeoRoundPrecision: getEnvInt("GEO_ROUND_PRECISION", 4),
		GeoCachePrecision: getEnvInt("GEO_CACHE_PRECISION", 3),
		GeoCacheTTL:       time.Duration(getEnvInt("GEO_CACHE_TTL_SECONDS", 3600)) * time.Second,

		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
		StaticDir:  getEnv("STATIC_DIR", "static"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithField("key", key).Warnf("invalid integer %q, using default %d", v, fallback)
		return fallback
	}
	return n
}
