package services

import (
	"context"
	"fmt"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"
	"yatraseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentService interface {
	Report(ctx context.Context, reporterID primitive.ObjectID, request *models.ReportIncidentRequest) (*models.Incident, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error)
	List(ctx context.Context, filter *interfaces.IncidentFilter, params *utils.PaginationParams) ([]*models.Incident, int64, error)
	GetActive(ctx context.Context) ([]*models.Incident, error)
}

type incidentService struct {
	incidentRepo interfaces.IncidentRepository
	publisher    events.Publisher
	logger       *logger.Logger
}

func NewIncidentService(
	incidentRepo interfaces.IncidentRepository,
	publisher events.Publisher,
	log *logger.Logger,
) IncidentService {
	return &incidentService{
		incidentRepo: incidentRepo,
		publisher:    publisher,
		logger:       log,
	}
}

func (s *incidentService) Report(ctx context.Context, reporterID primitive.ObjectID, request *models.ReportIncidentRequest) (*models.Incident, error) {
	if !models.ValidIncidentType(request.Type) {
		return nil, fmt.Errorf("invalid incident type %q", request.Type)
	}
	if !models.ValidSeverity(request.Severity) {
		return nil, fmt.Errorf("invalid severity %q", request.Severity)
	}

	incident := &models.Incident{
		ReporterID:        reporterID,
		Type:              request.Type,
		Severity:          request.Severity,
		Description:       request.Description,
		LocationText:      request.Location,
		Zone:              request.Zone,
		Status:            models.IncidentStatusOpen,
		AssignedResources: []primitive.ObjectID{},
		ResponseLog: []models.ResponseLogEntry{
			{
				Timestamp: time.Now(),
				Action:    "reported",
				Notes:     request.Description,
			},
		},
	}

	// Free-text locations may carry coordinates; their absence is not
	// an error, auto-dispatch just degrades to first-available.
	if lat, lng, ok := utils.ParseCoordinates(request.Location); ok {
		incident.Coordinates = &models.GeoPoint{Lat: lat, Lng: lng}
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("failed to report incident: %w", err)
	}

	s.logger.WithIncidentID(incident.ID).WithFields(map[string]interface{}{
		"severity": incident.Severity,
		"type":     incident.Type,
	}).Info("Incident reported")

	s.publisher.Publish(ctx, events.IncidentUpdated(incident))

	return incident, nil
}

func (s *incidentService) Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	return s.incidentRepo.GetByID(ctx, id)
}

func (s *incidentService) List(ctx context.Context, filter *interfaces.IncidentFilter, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	return s.incidentRepo.List(ctx, filter, params)
}

func (s *incidentService) GetActive(ctx context.Context) ([]*models.Incident, error) {
	return s.incidentRepo.GetActive(ctx)
}
