package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "servly/internal/bookings/errors"
	"servly/internal/bookings/repository"
	"servly/internal/bookings/validator"
	"servly/pkg/auth"
	"servly/pkg/config"
	apperrors "servly/pkg/errors"
	"servly/pkg/events"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"servly/pkg/validation"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, actor auth.Actor, req *model.BookingCreate) (*model.Booking, error)
	GetByID(ctx context.Context, actor auth.Actor, id string) (*model.Booking, error)
	List(ctx context.Context, actor auth.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id string, req *model.BookingStatusUpdate) (*model.Booking, error)
	Search(ctx context.Context, actor auth.Actor, providerID string, from, to *time.Time) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	windows   repository.AvailabilityReader
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	engine    *scheduling.Engine
	events    events.BookingEvents
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	windows repository.AvailabilityReader,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	engine *scheduling.Engine,
	bookingEvents events.BookingEvents,
	cfg *config.Config,
) BookingService {
	if bookingEvents == nil {
		bookingEvents = events.Noop{}
	}
	return &bookingService{
		repo:      repo,
		windows:   windows,
		lockRepo:  lockRepo,
		validator: validator,
		engine:    engine,
		events:    bookingEvents,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, actor auth.Actor, req *model.BookingCreate) (*model.Booking, error) {
	log := logger.FromContext(ctx, s.cfg.Log)

	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, validation.AppError("Booking validation failed", err)
	}

	requested, err := scheduling.NewTimeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, intervalError(err)
	}
	if s.engine.InPast(requested) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"start_time": "start_time cannot be in the past",
		})
	}

	booking := &model.Booking{
		UserID:     actor.ID,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		StartTime:  requested.Start,
		EndTime:    requested.End,
		Status:     scheduling.StatusPending,
		Notes:      req.Notes,
	}
	if err := s.validator.Validate(booking); err != nil {
		return nil, validation.AppError("Booking validation failed", err)
	}

	lockID, err := s.acquireProviderLock(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	defer s.releaseProviderLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		windows, err := s.windows.FindCovering(sessCtx, booking.ProviderID, requested)
		if err != nil {
			return apperrors.Internal("Failed to load availability", err)
		}
		existing, err := s.repo.FindConfirmedOverlapping(sessCtx, booking.ProviderID, requested, "")
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		decision, err := s.engine.CheckBookable(requested, booking.ProviderID, model.Windows(windows), model.ExistingBookings(existing))
		if err != nil {
			return intervalError(err)
		}
		if !decision.Accepted {
			return rejectionError(decision)
		}

		booking.ID = ""
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Booking created",
		"id", booking.ID,
		"user_id", booking.UserID,
		"provider_id", booking.ProviderID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)

	s.events.BookingCreated(ctx, bookingEvent(booking, "", actor, s.now()))
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor auth.Actor, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err, id, "Failed to retrieve booking")
	}

	if !canSee(actor, booking) {
		return nil, apperrors.Forbidden("You are not a party to this booking")
	}
	return booking, nil
}

// List returns the bookings visible to actor, newest first: a USER sees
// their own, a PROVIDER the ones addressed to them and an ADMIN all.
func (s *bookingService) List(ctx context.Context, actor auth.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	log := logger.FromContext(ctx, s.cfg.Log)

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	filter, err := listScope(actor)
	if err != nil {
		return nil, 0, err
	}

	var (
		bookings []*model.Booking
		count    int64
		findErr  error
		countErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.Find(ctx, filter, limit, offset)
	}()

	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx, filter)
	}()

	wg.Wait()

	if findErr != nil {
		log.Error("Failed to list bookings", "error", findErr)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", findErr)
	}
	if countErr != nil {
		log.Error("Failed to count bookings", "error", countErr)
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	return bookings, count, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor auth.Actor, id string, req *model.BookingStatusUpdate) (*model.Booking, error) {
	log := logger.FromContext(ctx, s.cfg.Log)

	if err := s.validator.ValidateStatusUpdate(req); err != nil {
		return nil, validation.AppError("Status update validation failed", err)
	}
	next, err := scheduling.ParseStatus(req.Status)
	if err != nil {
		return nil, apperrors.Validation("Status update validation failed", map[string]any{"status": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err, id, "Failed to retrieve booking")
	}
	if !canSee(actor, booking) {
		return nil, apperrors.Forbidden("You are not a party to this booking")
	}

	current := booking.Status
	if !s.engine.CanTransition(current, next, actor.Role) {
		return nil, apperrors.Forbidden(fmt.Sprintf("Role %s cannot move a booking from %s to %s", actor.Role, current, next)).
			WithDetails(map[string]any{
				"current": current,
				"next":    next,
				"allowed": scheduling.AllowedTransitions(current, actor.Role),
			})
	}

	if next == scheduling.StatusConfirmed {
		err = s.confirm(ctx, booking)
	} else {
		err = s.repo.UpdateStatusIfCurrent(ctx, booking.ID, current, next)
	}
	if err != nil {
		return nil, repositoryError(err, id, "Failed to update booking status")
	}

	booking.Status = next
	booking.UpdatedAt = s.now()

	log.Info("Booking status changed",
		"id", booking.ID,
		"from", current,
		"to", next,
		"actor_id", actor.ID,
		"actor_role", actor.Role,
	)

	s.events.BookingStatusChanged(ctx, bookingEvent(booking, current, actor, booking.UpdatedAt))
	return booking, nil
}

// confirm re-runs the conflict check and flips the status in one
// transaction, under the provider lock, so only one of two overlapping
// bookings can be confirmed.
func (s *bookingService) confirm(ctx context.Context, booking *model.Booking) error {
	lockID, err := s.acquireProviderLock(ctx, booking.ProviderID)
	if err != nil {
		return err
	}
	defer s.releaseProviderLock(ctx, lockID)

	interval := booking.Interval()
	return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindConfirmedOverlapping(sessCtx, booking.ProviderID, interval, booking.ID)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if conflict, ok := scheduling.FindConflict(interval, model.ExistingBookings(existing)); ok {
			d := scheduling.Reject(scheduling.SlotConflict)
			d.Conflict = &conflict
			return rejectionError(d)
		}
		return s.repo.UpdateStatusIfCurrent(sessCtx, booking.ID, scheduling.StatusPending, scheduling.StatusConfirmed)
	})
}

// Search returns a provider's bookings overlapping [from, to). Providers may
// only search their own schedule; ADMIN may search any provider.
func (s *bookingService) Search(ctx context.Context, actor auth.Actor, providerID string, from, to *time.Time) ([]*model.Booking, error) {
	switch actor.Role {
	case scheduling.RoleProvider:
		if providerID == "" {
			providerID = actor.ID
		}
		if providerID != actor.ID {
			return nil, apperrors.Forbidden("Providers can only search their own bookings")
		}
	case scheduling.RoleAdmin:
		if providerID == "" {
			return nil, apperrors.InvalidInput("provider_id query parameter is required")
		}
	default:
		return nil, apperrors.Forbidden("Only providers and admins can search bookings")
	}

	if from != nil && to != nil && !to.After(*from) {
		return nil, intervalError(scheduling.ErrInvalidInterval)
	}

	filter := repository.BookingFilter{ProviderID: providerID, From: from, To: to}
	bookings, err := s.repo.Find(ctx, filter, config.DefaultPaginationLimit, 0)
	if err != nil {
		return nil, apperrors.Internal("Failed to search bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) acquireProviderLock(ctx context.Context, providerID string) (string, error) {
	lockID := "provider:" + providerID

	now := s.now()
	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: now.Add(s.cfg.BookingLockTTL),
		CreatedAt: now,
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Conflict("This provider's schedule is being updated by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseProviderLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Delete(context.WithoutCancel(ctx), lockID); err != nil {
		logger.FromContext(ctx, s.cfg.Log).Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
	}
}

// now reads the engine clock.
func (s *bookingService) now() time.Time {
	return s.engine.Clock().Now().UTC()
}

func listScope(actor auth.Actor) (repository.BookingFilter, error) {
	switch actor.Role {
	case scheduling.RoleUser:
		return repository.BookingFilter{UserID: actor.ID}, nil
	case scheduling.RoleProvider:
		return repository.BookingFilter{ProviderID: actor.ID}, nil
	case scheduling.RoleAdmin:
		return repository.BookingFilter{}, nil
	default:
		return repository.BookingFilter{}, apperrors.Forbidden("Unknown role")
	}
}

func canSee(actor auth.Actor, booking *model.Booking) bool {
	switch actor.Role {
	case scheduling.RoleUser:
		return booking.UserID == actor.ID
	case scheduling.RoleProvider:
		return booking.ProviderID == actor.ID
	case scheduling.RoleAdmin:
		return true
	default:
		return false
	}
}

func bookingEvent(b *model.Booking, previous scheduling.Status, actor auth.Actor, at time.Time) model.BookingEvent {
	return model.BookingEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     b.Status,
		Previous:   previous,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: at,
	}
}

func rejectionError(d scheduling.Decision) error {
	details := map[string]any{"reason": d.Reason.String()}

	switch d.Reason {
	case scheduling.NoAvailability:
		return apperrors.Conflict("Slot not available").WithDetails(details)
	case scheduling.SlotConflict:
		if d.Conflict != nil {
			details["conflict_start"] = d.Conflict.Start
			details["conflict_end"] = d.Conflict.End
		}
		return apperrors.Conflict("Slot conflicts with existing booking").WithDetails(details)
	default:
		return apperrors.Conflict("Slot cannot be booked").WithDetails(details)
	}
}

func intervalError(err error) error {
	if errors.Is(err, scheduling.ErrInvalidInterval) {
		return apperrors.Validation("Invalid booking interval", map[string]any{
			"end_time": "end_time must be after start_time",
		}).WithCause(err)
	}
	return apperrors.Internal("Failed to evaluate booking interval", err)
}

func repositoryError(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid booking ID format: %s", id))
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.Conflict("Booking status was changed by another request").WithCause(err)
	default:
		return apperrors.Internal(message, err)
	}
}
