package main

import (
	"servly/internal/availability/handler"
	"servly/internal/availability/repository"
	"servly/internal/availability/service"
	"servly/internal/availability/validator"
	"servly/pkg/app"
	"servly/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityService := service.NewAvailabilityService(
		repository.NewMongoAvailabilityRepository(cfg),
		validator.NewAvailabilityValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
