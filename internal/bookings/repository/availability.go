package repository

import (
	"context"
	"fmt"
	"servly/pkg/config"
	mongotx "servly/pkg/db/mongo"
	"servly/pkg/model"
	"servly/pkg/scheduling"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AvailabilityCollectionName is owned by the availability service; bookings
// only read it.
const AvailabilityCollectionName = "availability_windows"

type AvailabilityReader interface {
	FindCovering(ctx context.Context, providerID string, interval scheduling.TimeInterval) ([]*model.AvailabilityWindow, error)
}

type mongoAvailabilityReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityReader(cfg *config.Config) AvailabilityReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityReader{
		cfg:        cfg,
		collection: db.Collection(AvailabilityCollectionName),
	}
}

// FindCovering prefilters the provider's windows to candidates for interval;
// the scheduling engine makes the final containment decision.
func (r *mongoAvailabilityReader) FindCovering(ctx context.Context, providerID string, interval scheduling.TimeInterval) ([]*model.AvailabilityWindow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"start_time":  bson.M{"$lte": interval.Start},
		"end_time":    bson.M{"$gte": interval.End},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find availability windows: %w", err)
	}
	defer cursor.Close(ctx)

	windows := []*model.AvailabilityWindow{}
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode availability windows: %w", err)
	}
	return windows, nil
}
