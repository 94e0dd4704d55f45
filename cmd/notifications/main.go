package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"steadyhotel/internal/notifications/service"
	"steadyhotel/pkg/config"
	kafka_config "steadyhotel/pkg/kafka/config"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Notifications service")

	notificationService := service.NewNotificationService(cfg)

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(func(msg string, args ...any) {
		cfg.Log.Info(msg, args...)
	})

	consumer, err := notificationService.NewConsumer(kafkaCfg)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		cfg.Log.Info("Consuming booking events",
			"topic", cfg.BookingEventsTopic,
			"dlq_topic", cfg.BookingEventsDLQTopic,
		)
		done <- consumer.Start(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Fatal("Consumer stopped unexpectedly", "error", err)
		}

	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
		<-done
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Notifications service stopped")
}
