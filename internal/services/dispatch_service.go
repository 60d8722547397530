package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"yatraseva/internal/config"
	"yatraseva/internal/events"
	"yatraseva/internal/geo"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"
	"yatraseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DispatchService interface {
	// Dispatch assigns a resource to an incident, either the one named
	// in the request or, with AutoRoute, the best-scoring candidate.
	Dispatch(ctx context.Context, incidentID primitive.ObjectID, request *models.DispatchRequest) (*DispatchResult, error)

	// UpdateResponseStatus advances the response lifecycle. Accepted
	// statuses are en_route, on_scene and resolved; resolved releases
	// the referenced resource back to available.
	UpdateResponseStatus(ctx context.Context, incidentID primitive.ObjectID, request *models.StatusUpdateRequest) (*models.Incident, error)

	// Prioritize returns the scored candidate list without committing
	// anything. Requires the incident to have usable coordinates.
	Prioritize(ctx context.Context, incidentID primitive.ObjectID) ([]*CandidateScore, error)
}

type DispatchResult struct {
	Incident *models.Incident  `json:"incident"`
	Resource *models.Resource  `json:"resource"`
	Route    *models.RouteInfo `json:"route_info"`
}

type CandidateScore struct {
	Resource      *models.Resource `json:"resource"`
	DistanceM     float64          `json:"distance_meters"`
	EstimatedTime float64          `json:"estimated_time_seconds"`
	Penalty       float64          `json:"congestion_penalty"`
	Score         float64          `json:"score"`
}

type dispatchService struct {
	incidentRepo interfaces.IncidentRepository
	resourceRepo interfaces.ResourceRepository
	transactor   interfaces.Transactor
	publisher    events.Publisher
	sampler      geo.DensitySampler
	cfg          *config.DispatchConfig
	logger       *logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewDispatchService(
	incidentRepo interfaces.IncidentRepository,
	resourceRepo interfaces.ResourceRepository,
	transactor interfaces.Transactor,
	publisher events.Publisher,
	sampler geo.DensitySampler,
	cfg *config.DispatchConfig,
	log *logger.Logger,
	rng *rand.Rand,
) DispatchService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &dispatchService{
		incidentRepo: incidentRepo,
		resourceRepo: resourceRepo,
		transactor:   transactor,
		publisher:    publisher,
		sampler:      sampler,
		cfg:          cfg,
		logger:       log,
		rng:          rng,
	}
}

func (s *dispatchService) Dispatch(ctx context.Context, incidentID primitive.ObjectID, request *models.DispatchRequest) (*DispatchResult, error) {
	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident.IsResolved() {
		return nil, ErrIncidentResolved
	}

	var resource *models.Resource
	var candidate *CandidateScore

	if request.AutoRoute {
		candidate, err = s.selectCandidate(ctx, incident)
		if err != nil {
			return nil, err
		}
		resource = candidate.Resource
	} else {
		resourceID, convErr := primitive.ObjectIDFromHex(request.ResourceID)
		if convErr != nil {
			return nil, fmt.Errorf("invalid resource id %q", request.ResourceID)
		}

		resource, err = s.resourceRepo.GetByID(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		if resource.Status == models.ResourceStatusBusy || resource.Status == models.ResourceStatusMaintenance {
			return nil, ErrResourceUnavailable
		}
		candidate = s.scoreCandidate(incident, resource)
	}

	route := s.buildRoute(incident, resource, candidate)
	now := time.Now()

	record := models.ResponseRecord{
		IncidentID:   incidentID,
		DispatchedAt: now,
		PlannedTime:  candidate.EstimatedTime,
		DistanceM:    candidate.DistanceM,
	}

	logEntry := models.ResponseLogEntry{
		Timestamp:  now,
		Action:     "dispatched",
		ResourceID: &resource.ID,
		Notes:      fmt.Sprintf("%s %s dispatched", resource.Type, resource.Name),
	}

	// One atomic unit: incident assignment, lifecycle transition, log
	// append and resource reservation commit together or not at all.
	err = s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.incidentRepo.AddAssignedResource(txCtx, incidentID, resource.ID); err != nil {
			return err
		}

		if incident.Status == models.IncidentStatusOpen {
			updates := map[string]interface{}{
				"status":        models.IncidentStatusEnRoute,
				"dispatched_at": now,
			}
			if err := s.incidentRepo.Update(txCtx, incidentID, updates); err != nil {
				return err
			}
		}

		if err := s.incidentRepo.AppendLog(txCtx, incidentID, logEntry); err != nil {
			return err
		}

		return s.resourceRepo.Assign(txCtx, resource.ID, incidentID, route, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch resource: %w", err)
	}

	updatedIncident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	updatedResource, err := s.resourceRepo.GetByID(ctx, resource.ID)
	if err != nil {
		return nil, err
	}

	s.logger.LogDispatchEvent(incidentID, "dispatched", map[string]interface{}{
		"resource_id":   resource.ID.Hex(),
		"resource_type": resource.Type,
		"distance_m":    candidate.DistanceM,
		"eta_seconds":   candidate.EstimatedTime,
	})

	s.publisher.Publish(ctx, events.IncidentUpdated(updatedIncident))
	s.publisher.Publish(ctx, events.ResourceUpdated(updatedResource))
	s.publisher.Publish(ctx, events.ReporterNotified(
		incident.ReporterID,
		incidentID,
		s.displayETAMinutes(candidate.EstimatedTime),
		"Help is on the way",
	))

	return &DispatchResult{
		Incident: updatedIncident,
		Resource: updatedResource,
		Route:    route,
	}, nil
}

func (s *dispatchService) UpdateResponseStatus(ctx context.Context, incidentID primitive.ObjectID, request *models.StatusUpdateRequest) (*models.Incident, error) {
	switch request.Status {
	case models.IncidentStatusEnRoute, models.IncidentStatusOnScene, models.IncidentStatusResolved:
	default:
		return nil, ErrInvalidStatus
	}

	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident.IsResolved() {
		return nil, ErrIncidentResolved
	}

	var resourceID *primitive.ObjectID
	if request.ResourceID != "" {
		id, convErr := primitive.ObjectIDFromHex(request.ResourceID)
		if convErr != nil {
			return nil, fmt.Errorf("invalid resource id %q", request.ResourceID)
		}
		resourceID = &id
	}

	now := time.Now()
	updates := map[string]interface{}{"status": request.Status}

	switch request.Status {
	case models.IncidentStatusEnRoute:
		if incident.DispatchedAt == nil {
			updates["dispatched_at"] = now
		}

	case models.IncidentStatusOnScene:
		// arrivedAt is stamped once; repeats keep the first arrival
		if incident.ArrivedAt == nil {
			updates["arrived_at"] = now
		}

	case models.IncidentStatusResolved:
		updates["resolved_at"] = now
		if incident.DispatchedAt != nil {
			updates["total_response_time_seconds"] = now.Sub(*incident.DispatchedAt).Seconds()
		}
	}

	logEntry := models.ResponseLogEntry{
		Timestamp:  now,
		Action:     string(request.Status),
		ResourceID: resourceID,
		Notes:      request.Notes,
		Location:   request.Location,
	}

	var releasedResource *models.Resource
	err = s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.incidentRepo.Update(txCtx, incidentID, updates); err != nil {
			return err
		}

		if err := s.incidentRepo.AppendLog(txCtx, incidentID, logEntry); err != nil {
			return err
		}

		if request.Status == models.IncidentStatusResolved && resourceID != nil {
			resource, err := s.resourceRepo.GetByID(txCtx, *resourceID)
			if err != nil {
				return err
			}

			actual := s.measuredResponseSeconds(resource, incidentID, now)
			if err := s.resourceRepo.Release(txCtx, *resourceID, incidentID, now, actual); err != nil {
				return err
			}
			releasedResource = resource
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update response status: %w", err)
	}

	updated, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	s.logger.LogDispatchEvent(incidentID, string(request.Status), map[string]interface{}{
		"notes": request.Notes,
	})

	s.publisher.Publish(ctx, events.IncidentUpdated(updated))
	if releasedResource != nil {
		if refreshed, err := s.resourceRepo.GetByID(ctx, releasedResource.ID); err == nil {
			s.publisher.Publish(ctx, events.ResourceUpdated(refreshed))
		}
	}

	return updated, nil
}

func (s *dispatchService) Prioritize(ctx context.Context, incidentID primitive.ObjectID) ([]*CandidateScore, error) {
	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident.Coordinates == nil {
		return nil, ErrLocationUnavailable
	}

	candidates, err := s.dispatchCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoResourcesAvailable
	}

	scored := make([]*CandidateScore, 0, len(candidates))
	for _, resource := range candidates {
		scored = append(scored, s.scoreCandidate(incident, resource))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, nil
}

// dispatchCandidates narrows the directory pool to units that can
// actually move to a scene. Fixed booths stay out even when available.
func (s *dispatchService) dispatchCandidates(ctx context.Context) ([]*models.Resource, error) {
	pool, err := s.resourceRepo.GetDispatchCandidates(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*models.Resource, 0, len(pool))
	for _, resource := range pool {
		if resource.Dispatchable() {
			candidates = append(candidates, resource)
		}
	}
	return candidates, nil
}

func (s *dispatchService) selectCandidate(ctx context.Context, incident *models.Incident) (*CandidateScore, error) {
	candidates, err := s.dispatchCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoResourcesAvailable
	}

	// Degraded mode: with no usable coordinates the scorer has nothing
	// to rank on, so the first available candidate wins deterministically.
	if incident.Coordinates == nil {
		for _, resource := range candidates {
			if resource.Status == models.ResourceStatusAvailable {
				return s.scoreCandidate(incident, resource), nil
			}
		}
		return s.scoreCandidate(incident, candidates[0]), nil
	}

	var best *CandidateScore
	for _, resource := range candidates {
		candidate := s.scoreCandidate(incident, resource)
		if best == nil || candidate.Score > best.Score {
			best = candidate
		}
	}

	return best, nil
}

func (s *dispatchService) scoreCandidate(incident *models.Incident, resource *models.Resource) *CandidateScore {
	candidate := &CandidateScore{Resource: resource}

	if incident.Coordinates == nil {
		return candidate
	}

	origin := geo.Point{Lat: resource.Location.Latitude(), Lng: resource.Location.Longitude()}
	target := geo.Point{Lat: incident.Coordinates.Lat, Lng: incident.Coordinates.Lng}

	candidate.DistanceM = geo.Distance(origin, target)
	candidate.Penalty = geo.CongestionPenalty(origin, target, s.sampler)
	candidate.EstimatedTime = geo.EstimatedTime(candidate.DistanceM, candidate.Penalty, resource.Type)

	distanceScore := clampScore(100 * (1 - candidate.DistanceM/s.cfg.DistanceCeilingM))

	availabilityScore := 50.0
	if resource.Status == models.ResourceStatusAvailable {
		availabilityScore = 100.0
	}

	// Zero is the "no usable estimate" sentinel; it earns nothing
	// rather than scoring as an instant arrival.
	etaScore := 0.0
	if candidate.EstimatedTime > 0 {
		etaScore = clampScore(100 * (1 - candidate.EstimatedTime/s.cfg.ETACeilingSeconds))
	}

	candidate.Score = s.cfg.WeightDistance*distanceScore +
		s.cfg.WeightType*typeScore(incident.Severity, resource.Type) +
		s.cfg.WeightAvailability*availabilityScore +
		s.cfg.WeightETA*etaScore

	return candidate
}

// buildRoute returns nil when no trustworthy route exists; the resource
// is still dispatched, just without route telemetry.
func (s *dispatchService) buildRoute(incident *models.Incident, resource *models.Resource, candidate *CandidateScore) *models.RouteInfo {
	if incident.Coordinates == nil || candidate.EstimatedTime <= 0 {
		return nil
	}

	origin := geo.Point{Lat: resource.Location.Latitude(), Lng: resource.Location.Longitude()}
	target := geo.Point{Lat: incident.Coordinates.Lat, Lng: incident.Coordinates.Lng}

	points := geo.RoutePoints(origin, target)
	if points == nil {
		return nil
	}

	return &models.RouteInfo{
		Destination: models.NewLocation(target.Lat, target.Lng, incident.Zone),
		ETA:         time.Now().Add(time.Duration(candidate.EstimatedTime) * time.Second),
		Points:      points,
	}
}

// displayETAMinutes converts the scheduling estimate into the figure
// shown to the reporter. Estimates that are unusable (sentinel zero) or
// discouraging (over ten minutes) are re-randomized into a 5-9 minute
// band. This is presentation policy only; resource selection always
// uses the real estimate.
func (s *dispatchService) displayETAMinutes(etaSeconds float64) int {
	minutes := int(math.Round(etaSeconds / 60))
	if etaSeconds <= 0 || minutes > utils.DisplayETACapMinutes {
		s.rngMu.Lock()
		defer s.rngMu.Unlock()
		return utils.DisplayETAFloorMinutes + s.rng.Intn(utils.DisplayETABandMinutes+1)
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func (s *dispatchService) measuredResponseSeconds(resource *models.Resource, incidentID primitive.ObjectID, completedAt time.Time) float64 {
	for i := len(resource.ResponseHistory) - 1; i >= 0; i-- {
		record := resource.ResponseHistory[i]
		if record.IncidentID == incidentID && record.CompletedAt == nil {
			return completedAt.Sub(record.DispatchedAt).Seconds()
		}
	}
	return 0
}

func typeScore(severity models.IncidentSeverity, resourceType models.ResourceType) float64 {
	if severity == models.SeverityHigh || severity == models.SeverityCritical {
		switch resourceType {
		case models.ResourceTypeAmbulance:
			return 100
		case models.ResourceTypeFirstAidTeam:
			return 60
		default:
			return 30
		}
	}

	switch resourceType {
	case models.ResourceTypeFirstAidTeam:
		return 80
	case models.ResourceTypeAmbulance:
		return 70
	default:
		return 50
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
