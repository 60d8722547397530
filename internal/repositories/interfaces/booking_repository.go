package interfaces

import (
	"context"

	"yatraseva/internal/models"
	"yatraseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	ListBySlot(ctx context.Context, slotID primitive.ObjectID) ([]*models.Booking, error)

	// Cancel flips the booking to cancelled only from status "booked",
	// as one conditional update, and returns the booking as it was
	// before the flip (so the caller knows the headcount to reclaim).
	// Returns ErrBookingNotCancellable when the booking is checked-in,
	// completed or already cancelled.
	Cancel(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
}
