package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenalgeria/greenalgeria-backend/internal/config"
	"github.com/greenalgeria/greenalgeria-backend/internal/db"
)

// extensions maps supported data-URI media types to file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// parseDataURI splits an inline base64 image into its media type and decoded
// bytes.
func parseDataURI(uri string) (mediaType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return "", nil, fmt.Errorf("not a base64 data URI")
	}
	mediaType = rest[:idx]
	if _, ok := extensions[mediaType]; !ok {
		return "", nil, fmt.Errorf("unsupported media type %q", mediaType)
	}
	data, err = base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return mediaType, data, nil
}

// migrateContribution writes the inline photo to disk and rewrites the
// document once. Each record is only ever touched by one migration run.
func migrateContribution(ctx context.Context, contributions db.ContributionCollection, staticDir, baseURL string, id primitive.ObjectID, photo string) error {
	mediaType, data, err := parseDataURI(photo)
	if err != nil {
		return err
	}

	name := id.Hex() + extensions[mediaType]
	if err := os.WriteFile(filepath.Join(staticDir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	url := baseURL + "/static/migrated/" + name
	return contributions.UpdateContributionPhoto(ctx, id, url, mediaType)
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	ctx := context.Background()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	contributions := &db.MongoContributionCollection{
		Collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
	}

	staticDir := filepath.Join(cfg.StaticDir, "migrated")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create static dir")
	}

	// Inline photos only, and never a record a previous run already touched.
	filter := bson.M{
		"photo":      bson.M{"$regex": "^data:"},
		"migratedAt": bson.M{"$exists": false},
	}

	cursor, err := contributions.FindContributions(ctx, filter)
	if err != nil {
		log.WithError(err).Fatal("failed to query contributions")
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		log.WithError(err).Fatal("failed to read contributions")
	}

	migrated, failed := 0, 0
	for _, doc := range docs {
		id, ok := doc["_id"].(primitive.ObjectID)
		if !ok {
			failed++
			continue
		}
		photo, ok := doc["photo"].(string)
		if !ok {
			failed++
			continue
		}
		if err := migrateContribution(ctx, contributions, staticDir, cfg.BaseURL, id, photo); err != nil {
			log.WithError(err).WithField("id", id.Hex()).Error("failed to migrate photo")
			failed++
			continue
		}
		migrated++
		log.WithField("id", id.Hex()).Info("migrated photo")
	}

	log.WithFields(log.Fields{"migrated": migrated, "failed": failed}).Info("image migration completed")
}
