package service

import (
	"context"
	"errors"
	reviewserrors "servly/internal/reviews/errors"
	"servly/internal/reviews/repository"
	"servly/internal/reviews/validator"
	"servly/pkg/auth"
	"servly/pkg/client"
	"servly/pkg/config"
	apperrors "servly/pkg/errors"
	"servly/pkg/events"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/sanitizer"
	"servly/pkg/scheduling"
	"servly/pkg/validation"
	"sync"
)

// BookingReader fetches a booking as the caller sees it. *client.BookingClient
// implements it against the bookings service.
type BookingReader interface {
	GetByID(ctx context.Context, id string, bearerToken string) (*model.Booking, error)
}

type ReviewService interface {
	Create(ctx context.Context, actor auth.Actor, req *model.ReviewCreate) (*model.Review, error)
	ListByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.Review, int64, error)
}

type reviewService struct {
	repo         repository.ReviewRepository
	bookings     BookingReader
	validator    *validator.ReviewValidator
	engine       *scheduling.Engine
	reviewEvents events.ReviewEvents
	cfg          *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	bookings BookingReader,
	validator *validator.ReviewValidator,
	engine *scheduling.Engine,
	reviewEvents events.ReviewEvents,
	cfg *config.Config,
) ReviewService {
	if reviewEvents == nil {
		reviewEvents = events.Noop{}
	}
	return &reviewService{
		repo:         repo,
		bookings:     bookings,
		validator:    validator,
		engine:       engine,
		reviewEvents: reviewEvents,
		cfg:          cfg,
	}
}

func (s *reviewService) Create(ctx context.Context, actor auth.Actor, req *model.ReviewCreate) (*model.Review, error) {
	log := logger.FromContext(ctx, s.cfg.Log)

	req.Comment = sanitizer.NormalizeText(req.Comment)
	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, validation.AppError("Review validation failed", err)
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID, auth.TokenFrom(ctx))
	if err != nil {
		if !errors.Is(err, client.ErrBookingNotFound) && !errors.Is(err, client.ErrBookingForbidden) {
			log.Error("Failed to fetch booking for review", "booking_id", req.BookingID, "error", err)
		}
		return nil, bookingError(err, req.BookingID)
	}
	if booking.ServiceID != req.ServiceID {
		return nil, apperrors.Validation("Review validation failed", map[string]any{
			"service_id": "service_id does not match the booking",
		})
	}

	existing, err := s.repo.FindByBookingID(ctx, req.BookingID)
	if err != nil && !errors.Is(err, reviewserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to look up existing review", err)
	}

	if denial := s.engine.CheckReview(booking.ReviewTarget(), actor.ID, existing.AsExisting()); denial != scheduling.ReviewAllowed {
		log.Info("Review denied", "booking_id", req.BookingID, "user_id", actor.ID, "reason", denial)
		return nil, denialError(denial)
	}

	review := &model.Review{
		BookingID: req.BookingID,
		UserID:    actor.ID,
		ServiceID: req.ServiceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.validator.Validate(review); err != nil {
		return nil, validation.AppError("Review validation failed", err)
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrAlreadyExists) {
			return nil, denialError(scheduling.ReviewAlreadyExists)
		}
		return nil, apperrors.Internal("Failed to create review", err)
	}

	log.Info("Review created", "id", review.ID, "booking_id", review.BookingID, "service_id", review.ServiceID, "rating", review.Rating)

	s.reviewEvents.ReviewCreated(ctx, model.ReviewCreatedEvent{
		ReviewID:  review.ID,
		BookingID: review.BookingID,
		ServiceID: review.ServiceID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	})
	return review, nil
}

func (s *reviewService) ListByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if serviceID == "" {
		return nil, 0, apperrors.InvalidInput("service_id is required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		reviews  []*model.Review
		count    int64
		findErr  error
		countErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		reviews, findErr = s.repo.FindByService(ctx, serviceID, limit, offset)
	}()

	go func() {
		defer wg.Done()
		count, countErr = s.repo.CountByService(ctx, serviceID)
	}()

	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve reviews", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count reviews", countErr)
	}
	return reviews, count, nil
}

func bookingError(err error, bookingID string) error {
	switch {
	case errors.Is(err, client.ErrBookingNotFound):
		return apperrors.NotFoundWithID("Booking", bookingID)
	case errors.Is(err, client.ErrBookingForbidden):
		return apperrors.Forbidden("You are not a party to this booking").
			WithDetails(map[string]any{"reason": string(scheduling.ReviewNotBookingOwner)})
	default:
		return apperrors.Unavailable("bookings").WithCause(err)
	}
}

// denialError maps a failed review rule: an existing review is a conflict,
// every other rule is a permission failure.
func denialError(denial scheduling.ReviewDenial) error {
	details := map[string]any{"reason": string(denial)}
	switch denial {
	case scheduling.ReviewAlreadyExists:
		return apperrors.Conflict("Booking has already been reviewed").WithDetails(details)
	case scheduling.ReviewNotBookingOwner:
		return apperrors.Forbidden("Only the customer of a booking can review it").WithDetails(details)
	case scheduling.ReviewNotCompleted:
		return apperrors.Forbidden("Only completed bookings can be reviewed").WithDetails(details)
	case scheduling.ReviewTooEarly:
		return apperrors.Forbidden("The service has not ended yet").WithDetails(details)
	default:
		return apperrors.Forbidden("Review not allowed").WithDetails(details)
	}
}
