package consumer

import (
	"context"
	"errors"
	listingserrors "servly/internal/listings/errors"
	"servly/pkg/auth"
	"servly/pkg/kafka"
	"servly/pkg/logger"
	"servly/pkg/model"
	"testing"
)

// ────────────────────────────────────────────────
// Mock service for testing
// ────────────────────────────────────────────────

type mockListingService struct {
	applyFunc func(ctx context.Context, event model.ReviewCreatedEvent) error
	calls     int
}

func (m *mockListingService) Create(ctx context.Context, actor auth.Actor, payload *model.ListingPayload) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (m *mockListingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (m *mockListingService) Search(ctx context.Context, filter *model.ListingFilter) ([]*model.Listing, int64, int, error) {
	return nil, 0, 0, errors.New("not implemented")
}

func (m *mockListingService) Update(ctx context.Context, actor auth.Actor, id string, payload *model.ListingPayload) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (m *mockListingService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	return errors.New("not implemented")
}

func (m *mockListingService) ApplyReview(ctx context.Context, event model.ReviewCreatedEvent) error {
	m.calls++
	if m.applyFunc != nil {
		return m.applyFunc(ctx, event)
	}
	return nil
}

func reviewMessage(t *testing.T, eventType string, value any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey("l1").WithValue(value).WithEventType(eventType).Build()
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	return msg
}

func kafkaErrorType(err error) kafka.ErrorType {
	var kerr *kafka.KafkaError
	if errors.As(err, &kerr) {
		return kerr.Type
	}
	return kafka.ErrorTypeUnknown
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestRatingHandler(t *testing.T) {
	event := model.ReviewCreatedEvent{ReviewID: "r1", ServiceID: "l1", Rating: 4}

	tests := []struct {
		name      string
		msg       func(t *testing.T) kafka.Message
		applyErr  error
		wantType  kafka.ErrorType
		wantNil   bool
		wantCalls int
	}{
		{
			name:      "applies review",
			msg:       func(t *testing.T) kafka.Message { return reviewMessage(t, model.EventReviewCreated, event) },
			wantNil:   true,
			wantCalls: 1,
		},
		{
			name:    "skips other event types",
			msg:     func(t *testing.T) kafka.Message { return reviewMessage(t, model.EventBookingCreated, event) },
			wantNil: true,
		},
		{
			name: "malformed payload is permanent",
			msg: func(t *testing.T) kafka.Message {
				msg := reviewMessage(t, model.EventReviewCreated, event)
				msg.Value = []byte("{not json")
				return msg
			},
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name: "missing ids are permanent",
			msg: func(t *testing.T) kafka.Message {
				return reviewMessage(t, model.EventReviewCreated, model.ReviewCreatedEvent{Rating: 4})
			},
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:      "unknown listing is permanent",
			msg:       func(t *testing.T) kafka.Message { return reviewMessage(t, model.EventReviewCreated, event) },
			applyErr:  listingserrors.ErrNotFound,
			wantType:  kafka.ErrorTypePermanent,
			wantCalls: 1,
		},
		{
			name:      "invalid rating is permanent",
			msg:       func(t *testing.T) kafka.Message { return reviewMessage(t, model.EventReviewCreated, event) },
			applyErr:  listingserrors.ErrInvalidRating,
			wantType:  kafka.ErrorTypePermanent,
			wantCalls: 1,
		},
		{
			name:      "storage failure is retried",
			msg:       func(t *testing.T) kafka.Message { return reviewMessage(t, model.EventReviewCreated, event) },
			applyErr:  errors.New("server selection timeout"),
			wantType:  kafka.ErrorTypeTransient,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockListingService{applyFunc: func(ctx context.Context, e model.ReviewCreatedEvent) error {
				return tt.applyErr
			}}
			handler := NewRatingHandler(svc, logger.Discard())

			err := handler(context.Background(), tt.msg(t))
			if tt.wantNil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if got := kafkaErrorType(err); got != tt.wantType {
				t.Fatalf("error type = %v, want %v (err: %v)", got, tt.wantType, err)
			}
			if svc.calls != tt.wantCalls {
				t.Errorf("ApplyReview calls = %d, want %d", svc.calls, tt.wantCalls)
			}
		})
	}
}
