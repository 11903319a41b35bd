package main

import (
	"servly/internal/listings/consumer"
	"servly/internal/listings/handler"
	"servly/internal/listings/repository"
	"servly/internal/listings/service"
	"servly/internal/listings/validator"
	"servly/pkg/app"
	"servly/pkg/config"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Listings service")
	serverApp := app.NewApplication(cfg)
	listingService := service.NewListingService(
		repository.NewMongoListingRepository(cfg),
		validator.NewListingValidator(cfg.Log),
		cfg,
	)

	ratings := consumer.NewRatingHandler(listingService, cfg.Log)
	if err := serverApp.AddConsumer(cfg.KafkaReviewTopic, cfg.KafkaRatingGroupID, ratings); err != nil {
		cfg.Log.Fatal("Failed to initialize rating consumer", "error", err)
	}

	serverApp.SetApp(handler.NewListingHandler(listingService, cfg.Log))
	serverApp.Run()
}
