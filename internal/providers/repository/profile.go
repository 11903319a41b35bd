package repository

import (
	"context"
	"errors"
	"fmt"
	providerserrors "servly/internal/providers/errors"
	"servly/pkg/config"
	mongotx "servly/pkg/db/mongo"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "profiles"

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindProviders(ctx context.Context, limit int, offset int64) ([]*model.Profile, error)
	CountProviders(ctx context.Context) (int64, error)
	// SaveApplication writes the application fields onto the profile with
	// id, creating the profile with role when it does not exist yet.
	SaveApplication(ctx context.Context, id string, role scheduling.Role, app *model.ProviderApplication) (*model.Profile, error)
	// DecideApplication moves a pending application to status. Approval
	// also sets the role to PROVIDER. It fails with ErrNotPending when the
	// profile exists without a pending application.
	DecideApplication(ctx context.Context, id string, status string) (*model.Profile, error)
	FindApplications(ctx context.Context, status string, limit int, offset int64) ([]*model.Profile, error)
	CountApplications(ctx context.Context, status string) (int64, error)
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var profile model.Profile
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, providerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *mongoProfileRepository) FindProviders(ctx context.Context, limit int, offset int64) ([]*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "name": 1, "email": 1, "role": 1, "bio": 1, "categories": 1, "created_at": 1}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, providersFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find providers: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []*model.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return profiles, nil
}

func (r *mongoProfileRepository) CountProviders(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, providersFilter())
	if err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}
	return count, nil
}

func (r *mongoProfileRepository) SaveApplication(ctx context.Context, id string, role scheduling.Role, app *model.ProviderApplication) (*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":               app.Name,
			"phone":              app.Phone,
			"bio":                app.Bio,
			"categories":         app.Categories,
			"application_status": model.ApplicationPending,
			"updated_at":         now,
		},
		"$setOnInsert": bson.M{
			"role":       role,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile model.Profile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to save provider application: %w", err)
	}
	return &profile, nil
}

func (r *mongoProfileRepository) DecideApplication(ctx context.Context, id string, status string) (*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "application_status": model.ApplicationPending}
	update := decisionUpdate(status, time.Now().UTC().Truncate(time.Millisecond))
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile model.Profile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to decide provider application: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if count == 0 {
		return nil, providerserrors.ErrNotFound
	}
	return nil, fmt.Errorf("%w: %s", providerserrors.ErrNotPending, id)
}

func (r *mongoProfileRepository) FindApplications(ctx context.Context, status string, limit int, offset int64) ([]*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, applicationsFilter(status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find provider applications: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []*model.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode provider applications: %w", err)
	}
	return profiles, nil
}

func (r *mongoProfileRepository) CountApplications(ctx context.Context, status string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, applicationsFilter(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count provider applications: %w", err)
	}
	return count, nil
}

func decisionUpdate(status string, now time.Time) bson.M {
	set := bson.M{
		"application_status": status,
		"updated_at":         now,
	}
	if status == model.ApplicationApproved {
		set["role"] = scheduling.RoleProvider
	}
	return bson.M{"$set": set}
}

func applicationsFilter(status string) bson.M {
	return bson.M{"application_status": status}
}

func providersFilter() bson.M {
	return bson.M{"role": scheduling.RoleProvider}
}
