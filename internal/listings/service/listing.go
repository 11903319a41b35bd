package service

import (
	"context"
	"errors"
	"fmt"
	listingserrors "servly/internal/listings/errors"
	"servly/internal/listings/repository"
	"servly/internal/listings/validator"
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

type ListingService interface {
	Create(ctx context.Context, actor auth.Actor, payload *model.ListingPayload) (*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Search(ctx context.Context, filter *model.ListingFilter) ([]*model.Listing, int64, int, error)
	Update(ctx context.Context, actor auth.Actor, id string, payload *model.ListingPayload) (*model.Listing, error)
	Delete(ctx context.Context, actor auth.Actor, id string) error
	ApplyReview(ctx context.Context, event model.ReviewCreatedEvent) error
}

type listingService struct {
	repo      repository.ListingRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(repo repository.ListingRepository, validator *validator.ListingValidator, cfg *config.Config) ListingService {
	return &listingService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *listingService) Create(ctx context.Context, actor auth.Actor, payload *model.ListingPayload) (*model.Listing, error) {
	if err := canManage(actor); err != nil {
		return nil, err
	}

	s.sanitize(payload)
	if err := s.validator.ValidatePayload(payload); err != nil {
		return nil, validation.AppError("Listing validation failed", err)
	}

	listing := &model.Listing{
		ProviderID:  actor.ID,
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       payload.Price,
		City:        payload.City,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, apperrors.Internal("Failed to create listing", err)
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Listing created", "id", listing.ID, "provider_id", listing.ProviderID, "category", listing.Category)
	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id, "Failed to retrieve listing")
	}
	return listing, nil
}

// Search returns one page of matching listings, the total match count and
// the page size used.
func (s *listingService) Search(ctx context.Context, filter *model.ListingFilter) ([]*model.Listing, int64, int, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	filter.Category = sanitizer.NormalizeLabel(filter.Category)
	filter.City = sanitizer.NormalizeCity(filter.City)
	filter.Search = sanitizer.TrimAndNormalize(filter.Search)

	if err := s.validator.ValidateFilter(filter); err != nil {
		return nil, 0, 0, validation.AppError("Invalid listing filter", err)
	}

	pageSize := s.cfg.ListingsPageSize
	if pageSize <= 0 {
		pageSize = config.DefaultListingsPageSize
	}
	offset := int64(filter.Page-1) * int64(pageSize)

	var (
		listings []*model.Listing
		count    int64
		findErr  error
		countErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		listings, findErr = s.repo.Find(ctx, filter, pageSize, offset)
	}()

	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx, filter)
	}()

	wg.Wait()

	if findErr != nil {
		return nil, 0, 0, apperrors.Internal("Failed to retrieve listings", findErr)
	}
	if countErr != nil {
		return nil, 0, 0, apperrors.Internal("Failed to count listings", countErr)
	}
	return listings, count, pageSize, nil
}

func (s *listingService) Update(ctx context.Context, actor auth.Actor, id string, payload *model.ListingPayload) (*model.Listing, error) {
	if err := canManage(actor); err != nil {
		return nil, err
	}

	s.sanitize(payload)
	if err := s.validator.ValidatePayload(payload); err != nil {
		return nil, validation.AppError("Listing validation failed", err)
	}

	listing, err := s.repo.Update(ctx, id, actor.ID, payload)
	if err != nil {
		return nil, mapError(err, id, "Failed to update listing")
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Listing updated", "id", id, "provider_id", actor.ID)
	return listing, nil
}

func (s *listingService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := canManage(actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, actor.ID); err != nil {
		return mapError(err, id, "Failed to delete listing")
	}

	logger.FromContext(ctx, s.cfg.Log).Info("Listing deleted", "id", id, "provider_id", actor.ID)
	return nil
}

// ApplyReview folds a new review into the listing rating. A review that was
// already counted is not an error.
func (s *listingService) ApplyReview(ctx context.Context, event model.ReviewCreatedEvent) error {
	log := logger.FromContext(ctx, s.cfg.Log)

	if event.Rating < 1 || event.Rating > 5 {
		return fmt.Errorf("%w: review %s has rating %d", listingserrors.ErrInvalidRating, event.ReviewID, event.Rating)
	}

	err := s.repo.ApplyRating(ctx, event.ServiceID, event.ReviewID, event.Rating)
	if errors.Is(err, listingserrors.ErrRatingApplied) {
		log.Info("Review rating already applied", "review_id", event.ReviewID, "listing_id", event.ServiceID)
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("Listing rating updated", "listing_id", event.ServiceID, "review_id", event.ReviewID, "rating", event.Rating)
	return nil
}

func (s *listingService) sanitize(payload *model.ListingPayload) {
	payload.Title = sanitizer.NormalizeName(payload.Title)
	payload.Description = sanitizer.NormalizeText(payload.Description)
	payload.Category = sanitizer.NormalizeLabel(payload.Category)
	payload.City = sanitizer.NormalizeCity(payload.City)
}

func canManage(actor auth.Actor) error {
	if actor.Is(scheduling.RoleProvider) || actor.Is(scheduling.RoleAdmin) {
		return nil
	}
	return apperrors.Forbidden("Only providers and admins can manage listings")
}

func mapError(err error, id, message string) error {
	switch {
	case errors.Is(err, listingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid listing ID format: %s", id))
	case errors.Is(err, listingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Listing", id)
	default:
		return apperrors.Internal(message, err)
	}
}
