package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB at the given URI and verifies the
// connection with a ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoContributionCollection implements ContributionCollection for MongoDB.
type MongoContributionCollection struct {
	Collection *mongo.Collection
}

// InsertContribution inserts a contribution document and returns the
// store-assigned id.
func (c *MongoContributionCollection) InsertContribution(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

// FindContributions queries contribution documents from the collection.
func (c *MongoContributionCollection) FindContributions(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ContributionCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoContributionCursor{cursor: cursor}, nil
}

// UpdateContributionPhoto rewrites a contribution's photo field to a
// reference URL and stamps the migration metadata. This is the only mutation
// a contribution ever sees after intake.
func (c *MongoContributionCollection) UpdateContributionPhoto(ctx context.Context, id primitive.ObjectID, photoURL, originalFormat string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"photo":          photoURL,
			"migratedAt":     time.Now(),
			"originalFormat": originalFormat,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contribution not found")
	}
	return nil
}

// mongoContributionCursor wraps a MongoDB cursor for contribution queries.
type mongoContributionCursor struct {
	cursor *mongo.Cursor
}

// All retrieves all results from the cursor.
func (m *mongoContributionCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

// Close closes the cursor.
func (m *mongoContributionCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}
