package mongodb

import (
	"context"
	"fmt"
	"time"

	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) ListBySlot(ctx context.Context, slotID primitive.ObjectID) ([]*models.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"slot_id": slotID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list slot bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode slot bookings: %w", err)
	}

	return bookings, nil
}

// Cancel flips the booking out of "booked" as one conditional update. A
// second cancel, or a cancel of a checked-in/completed booking, matches
// nothing and reports the conflict without side effect.
func (r *bookingRepository) Cancel(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "status": models.BookingStatusBooked}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingStatusCancelled,
		"cancelled_at": now,
		"updated_at":   now,
	}}

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before)).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// Distinguish "no such booking" from "wrong state".
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, interfaces.ErrBookingNotCancellable
}
