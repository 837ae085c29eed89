package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/greenalgeria/greenalgeria-backend/internal/config"
	"github.com/greenalgeria/greenalgeria-backend/internal/db"
	"github.com/greenalgeria/greenalgeria-backend/internal/geocode"
	"github.com/greenalgeria/greenalgeria-backend/internal/handlers"
	"github.com/greenalgeria/greenalgeria-backend/internal/middleware"
)

const (
	contributionsPerWindow = 100
	uploadsPerWindow       = 30
	rateLimitWindow        = 15 * time.Minute
)

func newRouter(cfg config.Config, contributions db.ContributionCollection, geocoder handlers.Resolver) *chi.Mux {
	contributionHandler := handlers.NewContributionHandler(contributions, geocoder, cfg.GeoRoundPrecision)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadsDir, cfg.BaseURL)

	contributionsLimiter := middleware.NewRateLimiter(contributionsPerWindow, rateLimitWindow)
	uploadLimiter := middleware.NewRateLimiter(uploadsPerWindow, rateLimitWindow)

	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestLogger("contributions"), contributionsLimiter.Handler)
		r.Post("/api/contributions", contributionHandler.Create)
	})
	r.Get("/api/contributions", contributionHandler.List)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestLogger("upload"), uploadLimiter.Handler)
		r.Post("/api/upload", uploadHandler.Upload)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	return r
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()

	// The server starts even when the store is down; the API answers 503
	// until a restart brings it back, so the front end keeps loading.
	var contributions db.ContributionCollection
	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Error("failed to connect to MongoDB")
	} else {
		log.Info("connected to MongoDB")
		contributions = &db.MongoContributionCollection{
			Collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
		}
	}

	cache := geocode.NewCache(cfg.GeoCachePrecision, cfg.GeoCacheTTL)
	pacer := geocode.NewPacer(cfg.NominatimMinGap)
	geocoder := geocode.NewGeocoder(cache, pacer, cfg.NominatimURL, cfg.NominatimUA, cfg.NominatimTimeout)

	router := newRouter(cfg, contributions, geocoder)

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
