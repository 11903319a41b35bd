package repository

import (
	"context"
	"errors"
	"fmt"
	availabilityerrors "servly/internal/availability/errors"
	"servly/pkg/config"
	mongotx "servly/pkg/db/mongo"
	"servly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "availability_windows"
)

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AvailabilityRepository interface {
	Create(ctx context.Context, window *model.AvailabilityWindow) error
	FindByID(ctx context.Context, id string) (*model.AvailabilityWindow, error)
	Find(ctx context.Context, providerID string, limit int, offset int64) ([]*model.AvailabilityWindow, error)
	Count(ctx context.Context, providerID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAvailabilityRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	window.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, window)
	if err != nil {
		return fmt.Errorf("failed to create availability window: %w", err)
	}

	window.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoAvailabilityRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityWindow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(id, availabilityerrors.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var window model.AvailabilityWindow
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&window); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability window: %w", err)
	}
	return &window, nil
}

// Find lists windows by ascending start; an empty providerID lists every
// provider's windows.
func (r *mongoAvailabilityRepository) Find(ctx context.Context, providerID string, limit int, offset int64) ([]*model.AvailabilityWindow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, providerFilter(providerID), opts)
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

func (r *mongoAvailabilityRepository) Count(ctx context.Context, providerID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, providerFilter(providerID))
	if err != nil {
		return 0, fmt.Errorf("failed to count availability windows: %w", err)
	}
	return count, nil
}

func (r *mongoAvailabilityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(id, availabilityerrors.ErrInvalidID)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete availability window: %w", err)
	}
	if result.DeletedCount == 0 {
		return availabilityerrors.ErrNotFound
	}
	return nil
}

func providerFilter(providerID string) bson.M {
	if providerID == "" {
		return bson.M{}
	}
	return bson.M{"provider_id": providerID}
}
