package mongodb

import (
	"context"
	"fmt"
	"time"

	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// resourceGeoKey is the Redis geo set mirroring every unit's last known
// position, keyed by resource id hex.
const resourceGeoKey = "resources:geo"

type resourceRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewResourceRepository(db *mongo.Database, cache CacheService) interfaces.ResourceRepository {
	return &resourceRepository{
		collection: db.Collection("resources"),
		cache:      cache,
	}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	resource.ID = primitive.NewObjectID()
	if resource.Status == "" {
		resource.Status = models.ResourceStatusAvailable
	}
	resource.CreatedAt = time.Now()
	resource.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, resource)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	r.indexLocation(ctx, resource.ID, resource.Location)
	r.invalidateDirectoryCache(ctx)
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Resource, error) {
	var resource models.Resource
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return &resource, nil
}

func (r *resourceRepository) List(ctx context.Context, status *models.ResourceStatus, params *utils.PaginationParams) ([]*models.Resource, int64, error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count resources: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, 0, fmt.Errorf("failed to decode resources: %w", err)
	}

	return resources, total, nil
}

func (r *resourceRepository) GetDispatchCandidates(ctx context.Context) ([]*models.Resource, error) {
	// Cache the candidate pool briefly; it changes on every dispatch so
	// the TTL is short and every write path invalidates it.
	cacheKey := "resources:candidates"
	var cached []*models.Resource
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
		return cached, nil
	}

	filter := bson.M{
		"status": bson.M{"$in": []models.ResourceStatus{
			models.ResourceStatusAvailable,
			models.ResourceStatusEnRoute,
		}},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find dispatch candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode dispatch candidates: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, resources, resourceCacheTTL)
	return resources, nil
}

func (r *resourceRepository) Assign(ctx context.Context, id primitive.ObjectID, incidentID primitive.ObjectID, route *models.RouteInfo, record models.ResponseRecord) error {
	// The status filter makes the reservation conditional: a resource
	// snatched into busy/maintenance between scoring and assignment is
	// not silently overwritten.
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.ResourceStatus{
			models.ResourceStatusAvailable,
			models.ResourceStatusEnRoute,
		}},
	}

	update := bson.M{
		"$set": bson.M{
			"status":            models.ResourceStatusEnRoute,
			"assigned_incident": incidentID,
			"current_route":     route,
			"updated_at":        time.Now(),
		},
		"$push": bson.M{"response_history": record},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to assign resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource is no longer assignable")
	}

	r.invalidateDirectoryCache(ctx)
	return nil
}

func (r *resourceRepository) Release(ctx context.Context, id primitive.ObjectID, incidentID primitive.ObjectID, completedAt time.Time, actualSeconds float64) error {
	update := bson.M{
		"$set": bson.M{
			"status":            models.ResourceStatusAvailable,
			"assigned_incident": nil,
			"current_route":     nil,
			"updated_at":        time.Now(),

			"response_history.$[rec].completed_at":        completedAt,
			"response_history.$[rec].actual_time_seconds": actualSeconds,
		},
	}

	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"rec.incident_id":  incidentID,
			"rec.completed_at": nil,
		}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update,
		options.Update().SetArrayFilters(arrayFilters))
	if err != nil {
		return fmt.Errorf("failed to release resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateDirectoryCache(ctx)
	return nil
}

func (r *resourceRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ResourceStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update resource status: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateDirectoryCache(ctx)
	return nil
}

func (r *resourceRepository) UpdateLocation(ctx context.Context, id primitive.ObjectID, location models.Location) error {
	location.Timestamp = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"location": location, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update resource location: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.indexLocation(ctx, id, location)
	r.invalidateDirectoryCache(ctx)
	return nil
}

func (r *resourceRepository) FindNearby(ctx context.Context, lat, lng, radiusM float64, limit int) ([]*models.Resource, error) {
	// The geo set answers when warm; a 2dsphere query on the collection
	// covers cold starts and Redis outages.
	members, err := r.cache.GeoRadius(ctx, resourceGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius: radiusM,
		Unit:   "m",
		Sort:   "ASC",
		Count:  limit,
	})
	if err == nil && len(members) > 0 {
		return r.findByGeoMembers(ctx, members)
	}

	filter := bson.M{
		"location": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": radiusM,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode nearby resources: %w", err)
	}

	return resources, nil
}

// findByGeoMembers resolves geo set members back to full documents,
// preserving the nearest-first ordering Redis returned.
func (r *resourceRepository) findByGeoMembers(ctx context.Context, members []redis.GeoLocation) ([]*models.Resource, error) {
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, member := range members {
		id, err := primitive.ObjectIDFromHex(member.Name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby resources: %w", err)
	}
	defer cursor.Close(ctx)

	var found []*models.Resource
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode nearby resources: %w", err)
	}

	byID := make(map[primitive.ObjectID]*models.Resource, len(found))
	for _, resource := range found {
		byID[resource.ID] = resource
	}

	// a member may lag a deleted document; skip the misses
	ordered := make([]*models.Resource, 0, len(ids))
	for _, id := range ids {
		if resource, ok := byID[id]; ok {
			ordered = append(ordered, resource)
		}
	}
	return ordered, nil
}

// indexLocation mirrors the position into the geo set. Best effort;
// the collection stays the source of truth.
func (r *resourceRepository) indexLocation(ctx context.Context, id primitive.ObjectID, location models.Location) {
	_ = r.cache.GeoAdd(ctx, resourceGeoKey, &redis.GeoLocation{
		Name:      id.Hex(),
		Longitude: location.Longitude(),
		Latitude:  location.Latitude(),
	})
}

func (r *resourceRepository) invalidateDirectoryCache(ctx context.Context) {
	_ = r.cache.Delete(ctx, "resources:candidates")
}
