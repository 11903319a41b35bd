// Package consumer folds review events from Kafka into listing ratings.
package consumer

import (
	"context"
	"errors"
	listingserrors "servly/internal/listings/errors"
	"servly/internal/listings/service"
	"servly/pkg/kafka"
	"servly/pkg/logger"
	"servly/pkg/model"
)

// NewRatingHandler returns the handler for the review topic. Events other
// than review.created are committed without work. Bad payloads and unknown
// listings are permanent failures and go to the DLQ; anything else is
// retried.
func NewRatingHandler(svc service.ListingService, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if msg.GetEventType() != model.EventReviewCreated {
			log.Debug("Skipping event", "event_type", msg.GetEventType(), "event_id", msg.GetEventID())
			return nil
		}

		var event model.ReviewCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		if event.ReviewID == "" || event.ServiceID == "" {
			return kafka.NewPermanentError("review event is missing ids", kafka.ErrInvalidMessage)
		}

		err := svc.ApplyReview(logger.IntoContext(ctx, log.With("event_id", msg.GetEventID())), event)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, listingserrors.ErrNotFound), errors.Is(err, listingserrors.ErrInvalidID):
			return kafka.NewPermanentError("listing for review not found", err)
		case errors.Is(err, listingserrors.ErrInvalidRating):
			return kafka.NewPermanentError("invalid review rating", err)
		default:
			return kafka.NewTransientError("failed to apply review rating", err)
		}
	}
}
