package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/geo"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"
	"yatraseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stderr"})
	return log
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) byType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []events.Event
	for _, event := range p.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// fakeTransactor runs the unit under a single mutex so concurrent test
// goroutines serialize the way Mongo document updates do.
type fakeTransactor struct {
	mu sync.Mutex
}

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

// --- incidents ---

type fakeIncidentRepo struct {
	mu        sync.Mutex
	incidents map[primitive.ObjectID]*models.Incident
}

func newFakeIncidentRepo() *fakeIncidentRepo {
	return &fakeIncidentRepo{incidents: make(map[primitive.ObjectID]*models.Incident)}
}

func (r *fakeIncidentRepo) Create(_ context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if incident.ID.IsZero() {
		incident.ID = primitive.NewObjectID()
	}
	clone := *incident
	r.incidents[incident.ID] = &clone
	return nil
}

func (r *fakeIncidentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *incident
	clone.AssignedResources = append([]primitive.ObjectID(nil), incident.AssignedResources...)
	clone.ResponseLog = append([]models.ResponseLogEntry(nil), incident.ResponseLog...)
	return &clone, nil
}

func (r *fakeIncidentRepo) List(ctx context.Context, filter *interfaces.IncidentFilter, _ *utils.PaginationParams) ([]*models.Incident, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Incident
	for _, incident := range r.incidents {
		if filter != nil && filter.Status != nil && incident.Status != *filter.Status {
			continue
		}
		clone := *incident
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeIncidentRepo) GetActive(_ context.Context) ([]*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*models.Incident
	for _, incident := range r.incidents {
		if !incident.IsResolved() {
			clone := *incident
			active = append(active, &clone)
		}
	}
	return active, nil
}

func (r *fakeIncidentRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for field, value := range updates {
		switch field {
		case "status":
			incident.Status = value.(models.IncidentStatus)
		case "dispatched_at":
			t := value.(time.Time)
			incident.DispatchedAt = &t
		case "arrived_at":
			t := value.(time.Time)
			incident.ArrivedAt = &t
		case "resolved_at":
			t := value.(time.Time)
			incident.ResolvedAt = &t
		case "total_response_time_seconds":
			v := value.(float64)
			incident.TotalResponseTime = &v
		}
	}
	incident.UpdatedAt = time.Now()
	return nil
}

func (r *fakeIncidentRepo) AppendLog(_ context.Context, id primitive.ObjectID, entry models.ResponseLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	incident.ResponseLog = append(incident.ResponseLog, entry)
	return nil
}

func (r *fakeIncidentRepo) AddAssignedResource(_ context.Context, id primitive.ObjectID, resourceID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for _, existing := range incident.AssignedResources {
		if existing == resourceID {
			return nil
		}
	}
	incident.AssignedResources = append(incident.AssignedResources, resourceID)
	return nil
}

// --- resources ---

type fakeResourceRepo struct {
	mu        sync.Mutex
	resources map[primitive.ObjectID]*models.Resource
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{resources: make(map[primitive.ObjectID]*models.Resource)}
}

func (r *fakeResourceRepo) Create(_ context.Context, resource *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resource.ID.IsZero() {
		resource.ID = primitive.NewObjectID()
	}
	clone := *resource
	r.resources[resource.ID] = &clone
	return nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.resources[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *resource
	clone.ResponseHistory = append([]models.ResponseRecord(nil), resource.ResponseHistory...)
	return &clone, nil
}

func (r *fakeResourceRepo) List(_ context.Context, status *models.ResourceStatus, _ *utils.PaginationParams) ([]*models.Resource, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Resource
	for _, resource := range r.resources {
		if status != nil && resource.Status != *status {
			continue
		}
		clone := *resource
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeResourceRepo) GetDispatchCandidates(_ context.Context) ([]*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var candidates []*models.Resource
	for _, resource := range r.resources {
		if resource.Status == models.ResourceStatusAvailable || resource.Status == models.ResourceStatusEnRoute {
			clone := *resource
			candidates = append(candidates, &clone)
		}
	}
	return candidates, nil
}

func (r *fakeResourceRepo) Assign(_ context.Context, id primitive.ObjectID, incidentID primitive.ObjectID, route *models.RouteInfo, record models.ResponseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.resources[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if resource.Status != models.ResourceStatusAvailable && resource.Status != models.ResourceStatusEnRoute {
		return interfaces.ErrNotFound
	}
	resource.Status = models.ResourceStatusEnRoute
	resource.AssignedIncident = &incidentID
	resource.CurrentRoute = route
	resource.ResponseHistory = append(resource.ResponseHistory, record)
	return nil
}

func (r *fakeResourceRepo) Release(_ context.Context, id primitive.ObjectID, incidentID primitive.ObjectID, completedAt time.Time, actualSeconds float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.resources[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	resource.Status = models.ResourceStatusAvailable
	resource.AssignedIncident = nil
	resource.CurrentRoute = nil
	for i := len(resource.ResponseHistory) - 1; i >= 0; i-- {
		record := &resource.ResponseHistory[i]
		if record.IncidentID == incidentID && record.CompletedAt == nil {
			record.CompletedAt = &completedAt
			record.ActualTime = &actualSeconds
			break
		}
	}
	return nil
}

func (r *fakeResourceRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ResourceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.resources[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	resource.Status = status
	return nil
}

func (r *fakeResourceRepo) UpdateLocation(_ context.Context, id primitive.ObjectID, location models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.resources[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	resource.Location = location
	return nil
}

func (r *fakeResourceRepo) FindNearby(_ context.Context, lat, lng, radiusM float64, limit int) ([]*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := geo.Point{Lat: lat, Lng: lng}
	var matched []*models.Resource
	for _, resource := range r.resources {
		origin := geo.Point{Lat: resource.Location.Latitude(), Lng: resource.Location.Longitude()}
		if geo.Distance(origin, target) > radiusM {
			continue
		}
		clone := *resource
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		a := geo.Point{Lat: matched[i].Location.Latitude(), Lng: matched[i].Location.Longitude()}
		b := geo.Point{Lat: matched[j].Location.Latitude(), Lng: matched[j].Location.Longitude()}
		return geo.Distance(a, target) < geo.Distance(b, target)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// fakeSweepLease hands the sweep lease out according to the granted
// flag and counts acquisition attempts.
type fakeSweepLease struct {
	mu      sync.Mutex
	granted bool
	calls   int
}

func (l *fakeSweepLease) SetNX(_ context.Context, _ string, _ interface{}, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.granted, nil
}

// --- slots ---

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[primitive.ObjectID]*models.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[primitive.ObjectID]*models.Slot)}
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot.ID.IsZero() {
		slot.ID = primitive.NewObjectID()
	}
	clone := *slot
	r.slots[slot.ID] = &clone
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *slot
	return &clone, nil
}

func (r *fakeSlotRepo) List(_ context.Context, from *time.Time, _ *utils.PaginationParams) ([]*models.Slot, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Slot
	for _, slot := range r.slots {
		if from != nil && slot.Date.Before(*from) {
			continue
		}
		clone := *slot
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeSlotRepo) ReserveSeats(_ context.Context, id primitive.ObjectID, headcount int) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if slot.Locked {
		return nil, interfaces.ErrSlotLocked
	}
	if slot.BookedCount+headcount > slot.Capacity {
		return nil, interfaces.ErrCapacityExceeded
	}
	slot.BookedCount += headcount
	clone := *slot
	return &clone, nil
}

func (r *fakeSlotRepo) ReleaseSeats(_ context.Context, id primitive.ObjectID, headcount int) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	slot.BookedCount -= headcount
	if slot.BookedCount < 0 {
		slot.BookedCount = 0
	}
	clone := *slot
	return &clone, nil
}

func (r *fakeSlotRepo) ListLockCandidates(_ context.Context, from time.Time, threshold float64) ([]*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Slot
	for _, slot := range r.slots {
		if slot.Locked || slot.Date.Before(from) {
			continue
		}
		if slot.Occupancy() >= threshold {
			clone := *slot
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *fakeSlotRepo) Lock(_ context.Context, id primitive.ObjectID, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return false, interfaces.ErrNotFound
	}
	if slot.Locked {
		return false, nil
	}
	slot.Locked = true
	slot.LockReason = reason
	return true, nil
}

func (r *fakeSlotRepo) Unlock(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	slot.Locked = false
	slot.LockReason = ""
	return nil
}

// --- bookings ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			clone := *booking
			matched = append(matched, &clone)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeBookingRepo) ListBySlot(_ context.Context, slotID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Booking
	for _, booking := range r.bookings {
		if booking.SlotID == slotID {
			clone := *booking
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if booking.Status != models.BookingStatusBooked {
		return nil, interfaces.ErrBookingNotCancellable
	}
	before := *booking
	now := time.Now()
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	return &before, nil
}
