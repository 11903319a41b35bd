package main

import (
	"servly/internal/providers/handler"
	"servly/internal/providers/repository"
	"servly/internal/providers/service"
	"servly/internal/providers/validator"
	"servly/pkg/app"
	"servly/pkg/config"
)

const ServiceName = "providers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Providers service")
	serverApp := app.NewApplication(cfg)
	providerService := service.NewProviderService(
		repository.NewMongoProfileRepository(cfg),
		validator.NewProviderValidator(cfg.Log),
		cfg,
	)
	serverApp.SetApp(handler.NewProviderHandler(providerService, cfg.Log))
	serverApp.Run()
}
