package services

import (
	"context"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"
	"yatraseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResourceService interface {
	Create(ctx context.Context, request *models.CreateResourceRequest) (*models.Resource, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Resource, error)
	List(ctx context.Context, status *models.ResourceStatus, params *utils.PaginationParams) ([]*models.Resource, int64, error)

	// UpdateStatus is the manual admin override. Rejected while the
	// resource still holds an active assignment; release it through the
	// incident lifecycle first.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ResourceStatus) (*models.Resource, error)

	// UpdateLocation is the unit heartbeat.
	UpdateLocation(ctx context.Context, id primitive.ObjectID, lat, lng float64, zone string) (*models.Resource, error)

	// Nearby lists resources around a point, nearest first. A radius of
	// zero means the default; anything else is clamped to the maximum.
	Nearby(ctx context.Context, lat, lng, radiusM float64) ([]*models.Resource, error)

	// Seed inserts the given resources if the directory is empty.
	Seed(ctx context.Context, resources []*models.Resource) (int, error)
}

type resourceService struct {
	resourceRepo interfaces.ResourceRepository
	publisher    events.Publisher
	logger       *logger.Logger
}

func NewResourceService(resourceRepo interfaces.ResourceRepository, publisher events.Publisher, log *logger.Logger) ResourceService {
	return &resourceService{
		resourceRepo: resourceRepo,
		publisher:    publisher,
		logger:       log,
	}
}

func (s *resourceService) Create(ctx context.Context, request *models.CreateResourceRequest) (*models.Resource, error) {
	now := time.Now()
	resource := &models.Resource{
		Name:            request.Name,
		Type:            request.Type,
		Status:          models.ResourceStatusAvailable,
		Location:        models.NewLocation(request.Lat, request.Lng, request.Zone),
		ResponseHistory: []models.ResponseRecord{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, err
	}

	s.logger.WithResourceID(resource.ID).WithField("type", resource.Type).Info("Resource registered")
	s.publisher.Publish(ctx, events.ResourceUpdated(resource))

	return resource, nil
}

func (s *resourceService) Get(ctx context.Context, id primitive.ObjectID) (*models.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

func (s *resourceService) List(ctx context.Context, status *models.ResourceStatus, params *utils.PaginationParams) ([]*models.Resource, int64, error) {
	return s.resourceRepo.List(ctx, status, params)
}

func (s *resourceService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ResourceStatus) (*models.Resource, error) {
	switch status {
	case models.ResourceStatusAvailable, models.ResourceStatusBusy, models.ResourceStatusMaintenance:
	default:
		return nil, ErrInvalidStatus
	}

	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource.AssignedIncident != nil {
		return nil, ErrResourceAssigned
	}

	if err := s.resourceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	updated, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithResourceID(id).WithField("status", status).Info("Resource status overridden")
	s.publisher.Publish(ctx, events.ResourceUpdated(updated))

	return updated, nil
}

func (s *resourceService) UpdateLocation(ctx context.Context, id primitive.ObjectID, lat, lng float64, zone string) (*models.Resource, error) {
	if !utils.IsValidCoordinates(lat, lng) {
		return nil, ErrLocationUnavailable
	}

	if err := s.resourceRepo.UpdateLocation(ctx, id, models.NewLocation(lat, lng, zone)); err != nil {
		return nil, err
	}

	updated, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.ResourceUpdated(updated))
	return updated, nil
}

const (
	defaultNearbyRadiusM = 1000.0
	maxNearbyRadiusM     = 10000.0
	nearbyResultLimit    = 25
)

func (s *resourceService) Nearby(ctx context.Context, lat, lng, radiusM float64) ([]*models.Resource, error) {
	if !utils.IsValidCoordinates(lat, lng) {
		return nil, ErrLocationUnavailable
	}

	if radiusM <= 0 {
		radiusM = defaultNearbyRadiusM
	}
	if radiusM > maxNearbyRadiusM {
		radiusM = maxNearbyRadiusM
	}

	return s.resourceRepo.FindNearby(ctx, lat, lng, radiusM, nearbyResultLimit)
}

func (s *resourceService) Seed(ctx context.Context, resources []*models.Resource) (int, error) {
	existing, _, err := s.resourceRepo.List(ctx, nil, utils.NewPaginationParams(1, 1))
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	inserted := 0
	now := time.Now()
	for _, resource := range resources {
		if resource.Status == "" {
			resource.Status = models.ResourceStatusAvailable
		}
		if resource.ResponseHistory == nil {
			resource.ResponseHistory = []models.ResponseRecord{}
		}
		resource.CreatedAt = now
		resource.UpdatedAt = now

		if err := s.resourceRepo.Create(ctx, resource); err != nil {
			return inserted, err
		}
		inserted++
	}

	s.logger.WithField("count", inserted).Info("Seeded resource directory")
	return inserted, nil
}
