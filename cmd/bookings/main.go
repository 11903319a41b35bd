package main

import (
	"servly/internal/bookings/handler"
	"servly/internal/bookings/repository"
	"servly/internal/bookings/service"
	"servly/internal/bookings/validator"
	"servly/pkg/app"
	"servly/pkg/config"
	"servly/pkg/events"
	"servly/pkg/scheduling"

	"github.com/juju/clock"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	bookingService := initServices(cfg, serverApp)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	var bookingEvents events.BookingEvents = events.Noop{}
	producer, err := serverApp.NewProducer(cfg.KafkaBookingTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	if producer != nil {
		bookingEvents = events.NewKafkaBookingEvents(producer, ServiceName, cfg.Log)
	}

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewMongoAvailabilityReader(cfg),
		repository.NewBookingLockRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		scheduling.NewEngine(clock.WallClock),
		bookingEvents,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName, "kafka_enabled", producer != nil)
	return bookingService
}
