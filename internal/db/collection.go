package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContributionCollection defines the interface for contribution storage
// operations. Documents are handled as raw bson.M so arbitrary client fields
// survive the round trip.
type ContributionCollection interface {
	InsertContribution(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	FindContributions(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ContributionCursor, error)
	UpdateContributionPhoto(ctx context.Context, id primitive.ObjectID, photoURL, originalFormat string) error
}

// ContributionCursor defines the interface for contribution cursor
// operations.
type ContributionCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
