package main

import (
	"servly/internal/reviews/handler"
	"servly/internal/reviews/repository"
	"servly/internal/reviews/service"
	"servly/internal/reviews/validator"
	"servly/pkg/app"
	"servly/pkg/client"
	"servly/pkg/config"
	"servly/pkg/events"
	"servly/pkg/scheduling"

	"github.com/juju/clock"
)

const ServiceName = "reviews"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Reviews service")
	serverApp := app.NewApplication(cfg)
	reviewService := initServices(cfg, serverApp)
	serverApp.SetApp(handler.NewReviewHandler(reviewService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.ReviewService {
	var reviewEvents events.ReviewEvents = events.Noop{}
	producer, err := serverApp.NewProducer(cfg.KafkaReviewTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	if producer != nil {
		reviewEvents = events.NewKafkaReviewEvents(producer, ServiceName, cfg.Log)
	}

	reviewService := service.NewReviewService(
		repository.NewMongoReviewRepository(cfg),
		client.NewBookingClient(cfg.BookingsServiceURL, cfg.RequestTimeout),
		validator.NewReviewValidator(cfg.Log),
		scheduling.NewEngine(clock.WallClock),
		reviewEvents,
		cfg,
	)

	cfg.Log.Info("Review service initialized", "bookings_url", cfg.BookingsServiceURL, "kafka_enabled", producer != nil)
	return reviewService
}
