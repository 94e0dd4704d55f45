package model

import "time"

// Order is the secondary ledger record written immediately after its
// Booking. It duplicates payment and pricing fields for reporting; if the
// order write fails the booking stands and reconciliation happens out of
// band.
type Order struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID         string    `json:"booking_id" bson:"booking_id"`
	AccommodationID   string    `json:"accommodation_id" bson:"accommodation_id"`
	AccommodationName string    `json:"accommodation_name" bson:"accommodation_name"`
	PaymentID         string    `json:"payment_id" bson:"payment_id"`
	Amount            int64     `json:"amount" bson:"amount"`
	Price             float64   `json:"price" bson:"price"`
	Currency          string    `json:"currency" bson:"currency"`
	UserID            string    `json:"user_id" bson:"user_id"`
	UserEmail         string    `json:"user_email" bson:"user_email"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}
