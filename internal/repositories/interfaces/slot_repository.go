package interfaces

import (
	"context"
	"time"

	"yatraseva/internal/models"
	"yatraseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Slot, error)
	List(ctx context.Context, from *time.Time, params *utils.PaginationParams) ([]*models.Slot, int64, error)

	// ReserveSeats performs the capacity check-and-increment as one
	// conditional update: it fails with ErrSlotLocked or
	// ErrCapacityExceeded without touching the counter, otherwise
	// increments booked_count by headcount and returns the updated
	// slot. Concurrent callers against the same slot serialize on the
	// document; two reservations that would jointly exceed capacity
	// can never both succeed.
	ReserveSeats(ctx context.Context, id primitive.ObjectID, headcount int) (*models.Slot, error)

	// ReleaseSeats decrements booked_count by headcount, floored at
	// zero, and returns the updated slot.
	ReleaseSeats(ctx context.Context, id primitive.ObjectID, headcount int) (*models.Slot, error)

	// ListLockCandidates returns unlocked slots dated from the given
	// time whose occupancy is at or above threshold.
	ListLockCandidates(ctx context.Context, from time.Time, threshold float64) ([]*models.Slot, error)

	// Lock sets the locked flag; returns false when the slot was
	// already locked by a concurrent writer.
	Lock(ctx context.Context, id primitive.ObjectID, reason string) (bool, error)
	Unlock(ctx context.Context, id primitive.ObjectID) error
}
