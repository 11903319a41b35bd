package service

import (
	"context"
	"errors"
	"fmt"
	availabilityerrors "servly/internal/availability/errors"
	"servly/internal/availability/repository"
	"servly/internal/availability/validator"
	"servly/pkg/auth"
	"servly/pkg/config"
	apperrors "servly/pkg/errors"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"servly/pkg/validation"
	"sync"
)

type AvailabilityService interface {
	Create(ctx context.Context, actor auth.Actor, req *model.AvailabilityCreate) (*model.AvailabilityWindow, error)
	List(ctx context.Context, actor auth.Actor, providerID string, limit int, offset int64) ([]*model.AvailabilityWindow, int64, error)
	Delete(ctx context.Context, actor auth.Actor, id string) error
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(repo repository.AvailabilityRepository, validator *validator.AvailabilityValidator, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Create stores a window owned by the acting provider.
func (s *availabilityService) Create(ctx context.Context, actor auth.Actor, req *model.AvailabilityCreate) (*model.AvailabilityWindow, error) {
	if !actor.Is(scheduling.RoleProvider) {
		return nil, apperrors.Forbidden("Only providers can publish availability")
	}

	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, validation.AppError("Availability validation failed", err)
	}
	interval, err := scheduling.NewTimeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperrors.Validation("Availability validation failed", map[string]any{
			"end_time": "end_time must be after start_time",
		}).WithCause(err)
	}

	window := &model.AvailabilityWindow{
		ProviderID: actor.ID,
		StartTime:  interval.Start,
		EndTime:    interval.End,
	}
	if err := s.validator.Validate(window); err != nil {
		return nil, validation.AppError("Availability validation failed", err)
	}

	if err := s.repo.Create(ctx, window); err != nil {
		return nil, apperrors.Internal("Failed to create availability window", err)
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Availability window created",
		"id", window.ID,
		"provider_id", window.ProviderID,
		"start_time", window.StartTime,
		"end_time", window.EndTime,
	)
	return window, nil
}

// List returns windows by ascending start. A provider always sees its own
// windows; other actors see every provider's unless providerID narrows it.
func (s *availabilityService) List(ctx context.Context, actor auth.Actor, providerID string, limit int, offset int64) ([]*model.AvailabilityWindow, int64, error) {
	if actor.Is(scheduling.RoleProvider) {
		providerID = actor.ID
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		windows  []*model.AvailabilityWindow
		count    int64
		findErr  error
		countErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		windows, findErr = s.repo.Find(ctx, providerID, limit, offset)
	}()

	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx, providerID)
	}()

	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve availability", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count availability", countErr)
	}
	return windows, count, nil
}

func (s *availabilityService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	window, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapError(err, id, "Failed to retrieve availability window")
	}
	if !actor.Is(scheduling.RoleProvider) || window.ProviderID != actor.ID {
		return apperrors.Forbidden("Only the owning provider can delete this window")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, id, "Failed to delete availability window")
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Availability window deleted", "id", id, "provider_id", actor.ID)
	return nil
}

func mapError(err error, id, message string) error {
	switch {
	case errors.Is(err, availabilityerrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid availability window ID format: %s", id))
	case errors.Is(err, availabilityerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Availability window", id)
	default:
		return apperrors.Internal(message, err)
	}
}
