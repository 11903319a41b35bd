package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	listingserrors "servly/internal/listings/errors"
	"servly/pkg/config"
	mongotx "servly/pkg/db/mongo"
	"servly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "listings"

	// AppliedRatingsCollectionName records which reviews have been counted,
	// keyed by review id.
	AppliedRatingsCollectionName = "listing_applied_ratings"
)

type mongoListingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	applied    *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	Find(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error)
	Count(ctx context.Context, filter *model.ListingFilter) (int64, error)
	Update(ctx context.Context, id, providerID string, payload *model.ListingPayload) (*model.Listing, error)
	Delete(ctx context.Context, id, providerID string) error
	ApplyRating(ctx context.Context, listingID, reviewID string, rating int) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoListingRepository(cfg *config.Config) ListingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoListingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		applied:    db.Collection(AppliedRatingsCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	listing.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	listing.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(id, listingserrors.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var listing model.Listing
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return &listing, nil
}

func (r *mongoListingRepository) Find(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []*model.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func (r *mongoListingRepository) Count(ctx context.Context, filter *model.ListingFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// Update replaces the editable fields of a listing owned by providerID. A
// listing of another provider reads as not found.
func (r *mongoListingRepository) Update(ctx context.Context, id, providerID string, payload *model.ListingPayload) (*model.Listing, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(id, listingserrors.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": objectID, "provider_id": providerID}
	update := bson.M{
		"$set": bson.M{
			"title":       payload.Title,
			"description": payload.Description,
			"category":    payload.Category,
			"price":       payload.Price,
			"city":        payload.City,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing model.Listing
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return &listing, nil
}

func (r *mongoListingRepository) Delete(ctx context.Context, id, providerID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(id, listingserrors.ErrInvalidID)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "provider_id": providerID})
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if result.DeletedCount == 0 {
		return listingserrors.ErrNotFound
	}
	return nil
}

// ApplyRating folds one review into the listing's running average. The
// review id is recorded in the same transaction, so a redelivered event
// returns ErrRatingApplied instead of counting twice.
func (r *mongoListingRepository) ApplyRating(ctx context.Context, listingID, reviewID string, rating int) error {
	objectID, err := mongotx.ObjectID(listingID, listingserrors.ErrInvalidID)
	if err != nil {
		return err
	}

	return r.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		_, err := r.applied.InsertOne(sessCtx, bson.M{
			"_id":        reviewID,
			"listing_id": listingID,
			"applied_at": time.Now().UTC(),
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return listingserrors.ErrRatingApplied
			}
			return fmt.Errorf("failed to record applied rating: %w", err)
		}

		// new average = (rating * count + r) / (count + 1), evaluated on
		// the stored values in one update
		update := mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"rating": bson.M{"$divide": bson.A{
					bson.M{"$add": bson.A{
						bson.M{"$multiply": bson.A{"$rating", "$rating_count"}},
						rating,
					}},
					bson.M{"$add": bson.A{"$rating_count", 1}},
				}},
				"rating_count": bson.M{"$add": bson.A{"$rating_count", 1}},
			}}},
		}

		result, err := r.collection.UpdateOne(sessCtx, bson.M{"_id": objectID}, update)
		if err != nil {
			return fmt.Errorf("failed to update listing rating: %w", err)
		}
		if result.MatchedCount == 0 {
			return listingserrors.ErrNotFound
		}
		return nil
	})
}

func (r *mongoListingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func buildFilter(f *model.ListingFilter) bson.M {
	filter := bson.M{}
	if f == nil {
		return filter
	}

	if f.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.City != "" {
		filter["city"] = f.City
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if f.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *f.MinRating}
	}

	return filter
}
