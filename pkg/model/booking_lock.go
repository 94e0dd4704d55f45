package model

import "time"

// BookingLock is an advisory lock document serializing the
// conflict-check-then-write window for one accommodation/date slot.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
