// Package events publishes booking and review domain events. Publishing
// happens after the write has committed; a failure is logged and never
// undoes or fails the request.
package events

import (
	"context"
	"servly/pkg/kafka"
	"servly/pkg/logger"
	"servly/pkg/model"
)

const schemaVersion = "1"

// Publisher is the subset of *kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingEvents interface {
	BookingCreated(ctx context.Context, event model.BookingEvent)
	BookingStatusChanged(ctx context.Context, event model.BookingEvent)
}

type ReviewEvents interface {
	ReviewCreated(ctx context.Context, event model.ReviewCreatedEvent)
}

type kafkaEvents struct {
	publisher Publisher
	source    string
	log       *logger.Logger
}

// NewKafkaBookingEvents keys booking events by provider so one provider's
// events stay ordered on a single partition.
func NewKafkaBookingEvents(publisher Publisher, source string, log *logger.Logger) BookingEvents {
	return &kafkaEvents{publisher: publisher, source: source, log: log}
}

// NewKafkaReviewEvents keys review events by listing, which keeps rating
// updates for one listing in order.
func NewKafkaReviewEvents(publisher Publisher, source string, log *logger.Logger) ReviewEvents {
	return &kafkaEvents{publisher: publisher, source: source, log: log}
}

func (k *kafkaEvents) BookingCreated(ctx context.Context, event model.BookingEvent) {
	k.publish(ctx, model.EventBookingCreated, event.ProviderID, event)
}

func (k *kafkaEvents) BookingStatusChanged(ctx context.Context, event model.BookingEvent) {
	k.publish(ctx, model.EventBookingStatusChanged, event.ProviderID, event)
}

func (k *kafkaEvents) ReviewCreated(ctx context.Context, event model.ReviewCreatedEvent) {
	k.publish(ctx, model.EventReviewCreated, event.ServiceID, event)
}

func (k *kafkaEvents) publish(ctx context.Context, eventType, key string, payload any) {
	log := logger.FromContext(ctx, k.log)

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(k.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(correlationID(ctx)).
		Build()
	if err != nil {
		log.Error("Failed to build event", "event_type", eventType, "error", err)
		return
	}

	// the request may be finishing; the event must not be cut short by it
	if err := k.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		log.Error("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"event_id", msg.GetEventID(),
			"error", err,
		)
		return
	}
	log.Debug("Event published", "event_type", eventType, "event_id", msg.GetEventID())
}

type correlationKey struct{}

// WithCorrelationID tags outgoing events with id, normally the request id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Noop drops every event. Used when Kafka is disabled.
type Noop struct{}

func (Noop) BookingCreated(context.Context, model.BookingEvent)       {}
func (Noop) BookingStatusChanged(context.Context, model.BookingEvent) {}
func (Noop) ReviewCreated(context.Context, model.ReviewCreatedEvent)  {}
