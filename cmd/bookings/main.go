package main

import (
	"steadyhotel/internal/bookings/handler"
	"steadyhotel/internal/bookings/repository"
	"steadyhotel/internal/bookings/service"
	"steadyhotel/internal/bookings/validator"
	"steadyhotel/pkg/app"
	"steadyhotel/pkg/config"
	"steadyhotel/pkg/contracts"
	"steadyhotel/pkg/health"
	"steadyhotel/pkg/kafka"
	kafka_config "steadyhotel/pkg/kafka/config"
	kafka_middleware "steadyhotel/pkg/kafka/middleware"
	"steadyhotel/pkg/paystack"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	checkoutService, bookingService, producer := initServices(cfg)
	defer checkoutService.Stop()
	defer func() {
		if producer != nil {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
		contracts.Compose(
			handler.NewCheckoutHandler(checkoutService, cfg.Log),
			handler.NewBookingHandler(bookingService, cfg.Log),
		),
		handler.NewWebhookHandler(checkoutService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.CheckoutService, service.BookingService, *kafka.Producer) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	orderRepo := repository.NewMongoOrderRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)

	gateway := service.NewPaystackGateway(
		paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey),
	)

	producer := newEventProducer(cfg)

	var publisher service.EventPublisher
	if producer != nil {
		publisher = producer
	}

	checkoutService := service.NewCheckoutService(
		bookingRepo,
		orderRepo,
		lockRepo,
		bookingValidator,
		gateway,
		publisher,
		cfg,
	)
	bookingService := service.NewBookingService(bookingRepo, cfg)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return checkoutService, bookingService, producer
}

// newEventProducer builds the booking events producer. Event publishing
// is best-effort, so a broker that is unavailable at startup downgrades
// the service to running without events rather than failing it.
func newEventProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Error("Failed to create Kafka producer, events disabled", "error", err)
		return nil
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return producer
}
