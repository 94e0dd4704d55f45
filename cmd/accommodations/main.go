package main

import (
	"steadyhotel/internal/accommodations/handler"
	"steadyhotel/internal/accommodations/repository"
	"steadyhotel/internal/accommodations/service"
	"steadyhotel/pkg/app"
	"steadyhotel/pkg/config"
	"steadyhotel/pkg/health"
)

const ServiceName = "accommodations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Accommodations service")

	accommodationService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewAccommodationHandler(accommodationService, cfg.Log),
		nil,
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AccommodationService {
	repo := repository.NewMongoAccommodationRepository(cfg)
	accommodationService := service.NewAccommodationService(repo, cfg)

	cfg.Log.Info("Accommodation service initialized", "database", cfg.MongoDatabaseName)
	return accommodationService
}
