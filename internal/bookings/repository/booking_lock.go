package repository

import (
	"context"
	"fmt"
	bookingserrors "servly/internal/bookings/errors"
	"servly/pkg/config"
	mongotx "servly/pkg/db/mongo"
	"servly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "booking_locks"

// BookingLockRepository stores advisory locks. The _id is the lock key, so
// a second Create for the same key fails with ErrLockHeld until the first
// lock is deleted or its ExpiresAt has passed.
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}

	// The TTL monitor runs about once a minute; clear an expired lock here
	// so a crashed holder does not block the provider past its ExpiresAt.
	if _, err := r.collection.DeleteOne(ctx, staleLockFilter(lock.ID, lock.CreatedAt)); err != nil {
		return nil, fmt.Errorf("failed to clear expired booking lock: %w", err)
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lock.ID)
		}
		return nil, fmt.Errorf("failed to create booking lock: %w", err)
	}

	return lock, nil
}

func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("failed to delete booking lock: %w", err)
	}
	return nil
}

func staleLockFilter(lockID string, now time.Time) bson.M {
	return bson.M{
		"_id":        lockID,
		"expires_at": bson.M{"$lte": now},
	}
}
