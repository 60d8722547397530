package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot is a bookable darshan time window with a hard capacity.
// Invariant: 0 <= BookedCount <= Capacity at every committed state.
// A locked slot rejects new bookings regardless of remaining capacity.
type Slot struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Date        time.Time          `json:"date" bson:"date" validate:"required"`
	StartTime   string             `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     string             `json:"end_time" bson:"end_time" validate:"required"`
	Zone        string             `json:"zone" bson:"zone"`
	Capacity    int                `json:"capacity" bson:"capacity" validate:"required,gt=0"`
	BookedCount int                `json:"booked_count" bson:"booked_count"`
	Locked      bool               `json:"locked" bson:"locked"`
	LockReason  string             `json:"lock_reason,omitempty" bson:"lock_reason,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func (s *Slot) Remaining() int {
	remaining := s.Capacity - s.BookedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Slot) Occupancy() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.BookedCount) / float64(s.Capacity)
}
