package service

import (
	"context"
	"time"

	"steadyhotel/pkg/kafka"
	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventOrderWriteFailed = "booking.order_write_failed"
	EventPaymentCancelled = "payment.cancelled"
	EventPaymentFailed    = "payment.failed"
)

const eventSource = "bookings"

// EventPublisher is satisfied by kafka.Producer
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingConfirmedEvent announces a completed checkout. The notifications
// service consumes it to send the receipt email.
type BookingConfirmedEvent struct {
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

// OrderWriteFailedEvent is the reconciliation feed for partial failures:
// the booking exists but its order record does not.
type OrderWriteFailedEvent struct {
	BookingID        string    `json:"booking_id"`
	PaymentReference string    `json:"payment_reference"`
	AccommodationID  string    `json:"accommodation_id"`
	Error            string    `json:"error"`
	FailedAt         time.Time `json:"failed_at"`
}

// PaymentEvent covers cancelled and failed payment attempts.
type PaymentEvent struct {
	PaymentReference string    `json:"payment_reference"`
	AccommodationID  string    `json:"accommodation_id"`
	UserID           string    `json:"user_id"`
	Reason           string    `json:"reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func newBookingConfirmedEvent(booking *model.Booking, orderID string) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:         booking.ID,
		OrderID:           orderID,
		PaymentReference:  booking.PaymentID,
		AccommodationID:   booking.AccommodationID,
		AccommodationName: booking.AccommodationName,
		CheckInDate:       booking.CheckInDate,
		CheckOutDate:      booking.CheckOutDate,
		NumberOfGuests:    booking.NumberOfGuests,
		Price:             booking.Price,
		Currency:          booking.Currency,
		UserID:            booking.UserID,
		UserEmail:         booking.UserEmail,
		UserName:          booking.UserName,
		ConfirmedAt:       time.Now().UTC(),
	}
}

// publishEvent is best-effort: a publish failure is logged and never
// changes workflow state.
func publishEvent(ctx context.Context, publisher EventPublisher, log *logger.Logger, eventType, key string, payload any) {
	if publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithEventID("").
		WithCorrelationID(key).
		WithSource(eventSource).
		Build()

	if err := publisher.Publish(ctx, msg); err != nil {
		log.Error("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
