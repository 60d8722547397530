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

type incidentRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewIncidentRepository(db *mongo.Database, cache CacheService) interfaces.IncidentRepository {
	return &incidentRepository{
		collection: db.Collection("incidents"),
		cache:      cache,
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	incident.ID = primitive.NewObjectID()
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, incident)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	r.invalidateActiveCache(ctx)
	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	var incident models.Incident
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	return &incident, nil
}

func (r *incidentRepository) List(ctx context.Context, filter *interfaces.IncidentFilter, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Status != nil {
			query["status"] = *filter.Status
		}
		if filter.Type != nil {
			query["type"] = *filter.Type
		}
		if filter.Severity != nil {
			query["severity"] = *filter.Severity
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer cursor.Close(ctx)

	var incidents []*models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, 0, fmt.Errorf("failed to decode incidents: %w", err)
	}

	return incidents, total, nil
}

func (r *incidentRepository) GetActive(ctx context.Context) ([]*models.Incident, error) {
	cacheKey := "incidents:active"
	var cached []*models.Incident
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
		return cached, nil
	}

	filter := bson.M{"status": bson.M{"$ne": models.IncidentStatusResolved}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find active incidents: %w", err)
	}
	defer cursor.Close(ctx)

	var incidents []*models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, fmt.Errorf("failed to decode active incidents: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, incidents, incidentCacheTTL)
	return incidents, nil
}

func (r *incidentRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateActiveCache(ctx)
	return nil
}

func (r *incidentRepository) AppendLog(ctx context.Context, id primitive.ObjectID, entry models.ResponseLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"response_log": entry},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append response log: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateActiveCache(ctx)
	return nil
}

func (r *incidentRepository) AddAssignedResource(ctx context.Context, id primitive.ObjectID, resourceID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$addToSet": bson.M{"assigned_resources": resourceID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add assigned resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateActiveCache(ctx)
	return nil
}

func (r *incidentRepository) invalidateActiveCache(ctx context.Context) {
	_ = r.cache.Delete(ctx, "incidents:active")
}
