package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCheckedIn BookingStatus = "checked-in"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// BookingMember is an additional pilgrim travelling on the same booking.
type BookingMember struct {
	Name string `json:"name" bson:"name" validate:"required"`
	Age  int    `json:"age" bson:"age" validate:"gte=0,lte=120"`
}

// Booking reserves Headcount seats (the booking user plus members)
// against one Slot. Cancellation reclaims exactly Headcount.
type Booking struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Reference   string             `json:"reference" bson:"reference"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	SlotID      primitive.ObjectID `json:"slot_id" bson:"slot_id" validate:"required"`
	Members     []BookingMember    `json:"members" bson:"members"`
	Headcount   int                `json:"headcount" bson:"headcount"`
	Status      BookingStatus      `json:"status" bson:"status"`
	CancelledAt *time.Time         `json:"cancelled_at" bson:"cancelled_at"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusBooked
}
