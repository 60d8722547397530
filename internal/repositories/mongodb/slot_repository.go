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

type slotRepository struct {
	collection *mongo.Collection
}

func NewSlotRepository(db *mongo.Database) interfaces.SlotRepository {
	return &slotRepository{
		collection: db.Collection("slots"),
	}
}

func (r *slotRepository) Create(ctx context.Context, slot *models.Slot) error {
	slot.ID = primitive.NewObjectID()
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}

	return nil
}

func (r *slotRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Slot, error) {
	var slot models.Slot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return &slot, nil
}

func (r *slotRepository) List(ctx context.Context, from *time.Time, params *utils.PaginationParams) ([]*models.Slot, int64, error) {
	filter := bson.M{}
	if from != nil {
		filter["date"] = bson.M{"$gte": *from}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count slots: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, 0, fmt.Errorf("failed to decode slots: %w", err)
	}

	return slots, total, nil
}

// ReserveSeats is the capacity check-and-increment. The filter carries
// both preconditions, so the counter moves only when the whole unit is
// admissible; Mongo's per-document atomicity serializes racing callers.
func (r *slotRepository) ReserveSeats(ctx context.Context, id primitive.ObjectID, headcount int) (*models.Slot, error) {
	filter := bson.M{
		"_id":    id,
		"locked": false,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$booked_count", headcount}},
				"$capacity",
			},
		},
	}

	update := bson.M{
		"$inc": bson.M{"booked_count": headcount},
		"$set": bson.M{"updated_at": time.Now()},
	}

	var slot models.Slot
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&slot)
	if err == nil {
		return &slot, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}

	// The conditional update matched nothing; re-read to report why.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.Locked {
		return nil, interfaces.ErrSlotLocked
	}
	return nil, interfaces.ErrCapacityExceeded
}

func (r *slotRepository) ReleaseSeats(ctx context.Context, id primitive.ObjectID, headcount int) (*models.Slot, error) {
	// Pipeline update so the decrement floors at zero in one step.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"booked_count": bson.M{
				"$max": bson.A{0, bson.M{"$subtract": bson.A{"$booked_count", headcount}}},
			},
			"updated_at": time.Now(),
		}}},
	}

	var slot models.Slot
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to release seats: %w", err)
	}

	return &slot, nil
}

func (r *slotRepository) ListLockCandidates(ctx context.Context, from time.Time, threshold float64) ([]*models.Slot, error) {
	filter := bson.M{
		"locked":   false,
		"date":     bson.M{"$gte": from},
		"capacity": bson.M{"$gt": 0},
		"$expr": bson.M{
			"$gte": bson.A{
				bson.M{"$divide": bson.A{"$booked_count", "$capacity"}},
				threshold,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find lock candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode lock candidates: %w", err)
	}

	return slots, nil
}

func (r *slotRepository) Lock(ctx context.Context, id primitive.ObjectID, reason string) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "locked": false},
		bson.M{"$set": bson.M{"locked": true, "lock_reason": reason, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to lock slot: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *slotRepository) Unlock(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"locked": false, "updated_at": time.Now()},
			"$unset": bson.M{"lock_reason": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to unlock slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}
