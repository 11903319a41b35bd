package events

import (
	"context"
	"errors"
	"servly/pkg/kafka"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"testing"
)

type recordingPublisher struct {
	messages []kafka.Message
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return p.err
}

func TestBookingCreated(t *testing.T) {
	pub := &recordingPublisher{}
	ev := NewKafkaBookingEvents(pub, "bookings", logger.Discard())

	ctx := WithCorrelationID(context.Background(), "req-1")
	ev.BookingCreated(ctx, model.BookingEvent{
		BookingID:  "b1",
		ProviderID: "prov-1",
		Status:     scheduling.StatusPending,
	})

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Key != "prov-1" {
		t.Errorf("key = %q, want provider id", msg.Key)
	}
	if msg.GetEventType() != model.EventBookingCreated {
		t.Errorf("event type = %q", msg.GetEventType())
	}
	if msg.GetCorrelationID() != "req-1" {
		t.Errorf("correlation id = %q", msg.GetCorrelationID())
	}

	var decoded model.BookingEvent
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.BookingID != "b1" || decoded.Status != scheduling.StatusPending {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestReviewCreated_KeyedByListing(t *testing.T) {
	pub := &recordingPublisher{}
	ev := NewKafkaReviewEvents(pub, "reviews", logger.Discard())

	ev.ReviewCreated(context.Background(), model.ReviewCreatedEvent{ReviewID: "r1", ServiceID: "svc-9", Rating: 4})

	if len(pub.messages) != 1 || pub.messages[0].Key != "svc-9" {
		t.Fatalf("unexpected messages %+v", pub.messages)
	}
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	ev := NewKafkaBookingEvents(pub, "bookings", logger.Discard())

	// must not panic or block
	ev.BookingStatusChanged(context.Background(), model.BookingEvent{BookingID: "b1", ProviderID: "p"})

	if len(pub.messages) != 1 {
		t.Errorf("publish should have been attempted once, got %d", len(pub.messages))
	}
}
