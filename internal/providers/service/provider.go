package service

import (
	"context"
	"errors"
	providerserrors "servly/internal/providers/errors"
	"servly/internal/providers/repository"
	"servly/internal/providers/validator"
	"servly/pkg/auth"
	"servly/pkg/config"
	apperrors "servly/pkg/errors"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/sanitizer"
	"servly/pkg/scheduling"
	"servly/pkg/validation"
	"sync"
)

type ProviderService interface {
	List(ctx context.Context, limit int, offset int64) ([]*model.Profile, int64, error)
	Apply(ctx context.Context, actor auth.Actor, app *model.ProviderApplication) (*model.Profile, error)
	ListApplications(ctx context.Context, actor auth.Actor, status string, limit int, offset int64) ([]*model.Profile, int64, error)
	Approve(ctx context.Context, actor auth.Actor, id string) (*model.Profile, error)
	Reject(ctx context.Context, actor auth.Actor, id string) (*model.Profile, error)
}

type providerService struct {
	repo      repository.ProfileRepository
	validator *validator.ProviderValidator
	cfg       *config.Config
}

func NewProviderService(repo repository.ProfileRepository, validator *validator.ProviderValidator, cfg *config.Config) ProviderService {
	return &providerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *providerService) List(ctx context.Context, limit int, offset int64) ([]*model.Profile, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		profiles []*model.Profile
		count    int64
		findErr  error
		countErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		profiles, findErr = s.repo.FindProviders(ctx, limit, offset)
	}()

	go func() {
		defer wg.Done()
		count, countErr = s.repo.CountProviders(ctx)
	}()

	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve providers", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count providers", countErr)
	}
	return profiles, count, nil
}

// Apply records a pending provider application on the actor's profile.
// The role changes only when an admin approves it.
func (s *providerService) Apply(ctx context.Context, actor auth.Actor, app *model.ProviderApplication) (*model.Profile, error) {
	rawPhone := app.Phone
	s.sanitize(app)

	if app.Phone == "" && rawPhone != "" {
		return nil, apperrors.Validation("Provider application validation failed", map[string]any{
			"phone": "phone must be a valid phone number",
		})
	}
	if err := s.validator.ValidateApplication(app); err != nil {
		return nil, validation.AppError("Provider application validation failed", err)
	}

	profile, err := s.repo.SaveApplication(ctx, actor.ID, actor.Role, app)
	if err != nil {
		return nil, apperrors.Internal("Failed to save provider application", err)
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Provider application submitted",
		"profile_id", actor.ID,
		"categories", profile.Categories,
	)
	return profile, nil
}

func (s *providerService) ListApplications(ctx context.Context, actor auth.Actor, status string, limit int, offset int64) ([]*model.Profile, int64, error) {
	if !actor.Is(scheduling.RoleAdmin) {
		return nil, 0, apperrors.Forbidden("Only admins can review provider applications")
	}
	if status == "" {
		status = model.ApplicationPending
	}
	switch status {
	case model.ApplicationPending, model.ApplicationApproved, model.ApplicationRejected:
	default:
		return nil, 0, apperrors.InvalidInput("status must be one of pending, approved, rejected")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	profiles, err := s.repo.FindApplications(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve provider applications", err)
	}
	count, err := s.repo.CountApplications(ctx, status)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count provider applications", err)
	}
	return profiles, count, nil
}

func (s *providerService) Approve(ctx context.Context, actor auth.Actor, id string) (*model.Profile, error) {
	return s.decide(ctx, actor, id, model.ApplicationApproved)
}

func (s *providerService) Reject(ctx context.Context, actor auth.Actor, id string) (*model.Profile, error) {
	return s.decide(ctx, actor, id, model.ApplicationRejected)
}

func (s *providerService) decide(ctx context.Context, actor auth.Actor, id string, status string) (*model.Profile, error) {
	if !actor.Is(scheduling.RoleAdmin) {
		return nil, apperrors.Forbidden("Only admins can decide provider applications")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Profile ID is required")
	}

	profile, err := s.repo.DecideApplication(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, providerserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Profile", id)
		case errors.Is(err, providerserrors.ErrNotPending):
			return nil, apperrors.Conflict("Application is not pending")
		default:
			return nil, apperrors.Internal("Failed to update provider application", err)
		}
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Provider application decided",
		"profile_id", id,
		"status", status,
		"role", profile.Role,
		"admin_id", actor.ID,
	)
	return profile, nil
}

func (s *providerService) sanitize(app *model.ProviderApplication) {
	app.Name = sanitizer.NormalizeName(app.Name)
	app.Phone = sanitizer.NormalizePhone(app.Phone)
	app.Bio = sanitizer.NormalizeText(app.Bio)
	app.Categories = sanitizer.NormalizeCategories(app.Categories)
}
