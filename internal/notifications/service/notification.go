package service

import (
	"context"
	"time"

	"steadyhotel/pkg/config"
	"steadyhotel/pkg/kafka"
	kafka_config "steadyhotel/pkg/kafka/config"
	kafka_middleware "steadyhotel/pkg/kafka/middleware"
)

const (
	eventBookingConfirmed = "booking.confirmed"
	consumerGroup         = "notifications"
)

// BookingConfirmed mirrors the booking.confirmed event payload published
// by the bookings service.
type BookingConfirmed struct {
	BookingID         string    `json:"booking_id"`
	OrderID           string    `json:"order_id"`
	PaymentReference  string    `json:"payment_reference"`
	AccommodationID   string    `json:"accommodation_id"`
	AccommodationName string    `json:"accommodation_name"`
	CheckInDate       time.Time `json:"check_in_date"`
	CheckOutDate      time.Time `json:"check_out_date"`
	NumberOfGuests    int       `json:"number_of_guests"`
	Price             float64   `json:"price"`
	Currency          string    `json:"currency"`
	UserID            string    `json:"user_id"`
	UserEmail         string    `json:"user_email"`
	UserName          string    `json:"user_name"`
	ConfirmedAt       time.Time `json:"confirmed_at"`
}

// NotificationService turns booking.confirmed events into PDF receipts
// and receipt emails. Other event types on the topic are acknowledged
// without action.
type NotificationService struct {
	receipts *ReceiptGenerator
	emails   *EmailSender
	cfg      *config.Config
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		receipts: NewReceiptGenerator(cfg.ReceiptsDir, cfg.Log),
		emails:   NewEmailSender(cfg),
		cfg:      cfg,
	}
}

// HandleMessage implements kafka.MessageHandler.
func (s *NotificationService) HandleMessage(ctx context.Context, msg kafka.Message) error {
	if msg.GetEventType() != eventBookingConfirmed {
		return nil
	}

	var event BookingConfirmed
	if err := msg.DecodeValue(&event); err != nil {
		// An undecodable payload will never succeed on retry
		return kafka.NewPermanentError("invalid booking.confirmed payload", err)
	}

	receiptPath, err := s.receipts.Generate(&event)
	if err != nil {
		return kafka.NewTransientError("receipt generation failed", err)
	}

	if err := s.emails.SendReceipt(event.UserEmail, &event, receiptPath); err != nil {
		return kafka.NewTransientError("receipt email failed", err)
	}

	return nil
}

// NewConsumer builds the Kafka consumer for the booking events topic,
// with the notification handler and structured logging attached.
func (s *NotificationService) NewConsumer(kafkaCfg *kafka_config.Config) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		s.cfg.BookingEventsTopic,
		consumerGroup,
		s.cfg.BookingEventsDLQTopic,
		s.HandleMessage,
	)
	if err != nil {
		return nil, err
	}

	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(s.cfg.Log))
	return consumer, nil
}
