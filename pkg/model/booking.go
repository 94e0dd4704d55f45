package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// BookingRequest is the ephemeral per-attempt input to the checkout
// workflow. It snapshots the catalog entry and the user identity at the
// moment of submission; nothing here is persisted until payment succeeds.
type BookingRequest struct {
	AccommodationID   string    `json:"accommodation_id" validate:"required,mongodb"`
	AccommodationName string    `json:"accommodation_name" validate:"required,min=2,max=100"`
	Category          string    `json:"category" validate:"omitempty,max=100"`
	Price             any       `json:"price" validate:"required"`
	CheckInDate       time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate      time.Time `json:"check_out_date" validate:"required"`
	NumberOfGuests    int       `json:"number_of_guests" validate:"required,min=1"`
	UserID            string    `json:"user_id" validate:"required"`
	UserEmail         string    `json:"user_email" validate:"required,email"`
	UserName          string    `json:"user_name" validate:"required,min=1,max=100"`
}

// Booking is the persisted record, created exactly once per successful
// payment and never mutated by the checkout workflow afterwards.
type Booking struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty"`
	AccommodationID   string    `json:"accommodation_id" bson:"accommodation_id"`
	AccommodationName string    `json:"accommodation_name" bson:"accommodation_name"`
	CheckInDate       time.Time `json:"check_in_date" bson:"check_in_date"`
	CheckOutDate      time.Time `json:"check_out_date" bson:"check_out_date"`
	NumberOfGuests    int       `json:"number_of_guests" bson:"number_of_guests"`
	Price             float64   `json:"price" bson:"price"`
	Currency          string    `json:"currency" bson:"currency"`
	PaymentID         string    `json:"payment_id" bson:"payment_id"`
	UserID            string    `json:"user_id" bson:"user_id"`
	UserEmail         string    `json:"user_email" bson:"user_email"`
	UserName          string    `json:"user_name" bson:"user_name"`
	Status            string    `json:"status" bson:"status"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}
