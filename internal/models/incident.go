package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentType string
type IncidentSeverity string
type IncidentStatus string

const (
	IncidentTypeMedical      IncidentType = "medical"
	IncidentTypeFire         IncidentType = "fire"
	IncidentTypeOvercrowding IncidentType = "overcrowding"
	IncidentTypeSecurity     IncidentType = "security"
	IncidentTypeOther        IncidentType = "other"

	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"

	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusEnRoute       IncidentStatus = "en_route"
	IncidentStatusOnScene       IncidentStatus = "on_scene"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

// ResponseLogEntry is one line of an incident's audit trail. The log is
// append-only; entries are never rewritten or removed.
type ResponseLogEntry struct {
	Timestamp  time.Time           `json:"timestamp" bson:"timestamp"`
	Action     string              `json:"action" bson:"action"`
	ResourceID *primitive.ObjectID `json:"resource_id" bson:"resource_id"`
	Notes      string              `json:"notes" bson:"notes"`
	Location   *GeoPoint           `json:"location" bson:"location"`
}

// Incident is a reported event needing a dispatched response.
//
// AssignedResources only grows; a resolved incident keeps its historical
// resource references for audit. Active-assignment queries must filter
// by resource status, never by membership in this set.
type Incident struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ReporterID        primitive.ObjectID   `json:"reporter_id" bson:"reporter_id" validate:"required"`
	Type              IncidentType         `json:"type" bson:"type" validate:"required"`
	Severity          IncidentSeverity     `json:"severity" bson:"severity" validate:"required"`
	Description       string               `json:"description" bson:"description"`
	LocationText      string               `json:"location_text" bson:"location_text"`
	Coordinates       *GeoPoint            `json:"coordinates" bson:"coordinates"`
	Zone              string               `json:"zone" bson:"zone"`
	Status            IncidentStatus       `json:"status" bson:"status"`
	AssignedResources []primitive.ObjectID `json:"assigned_resources" bson:"assigned_resources"`
	ResponseLog       []ResponseLogEntry   `json:"response_log" bson:"response_log"`
	DispatchedAt      *time.Time           `json:"dispatched_at" bson:"dispatched_at"`
	ArrivedAt         *time.Time           `json:"arrived_at" bson:"arrived_at"`
	ResolvedAt        *time.Time           `json:"resolved_at" bson:"resolved_at"`
	TotalResponseTime *float64             `json:"total_response_time_seconds" bson:"total_response_time_seconds"`
	CreatedAt         time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" bson:"updated_at"`
}

func (i *Incident) IsResolved() bool {
	return i.Status == IncidentStatusResolved
}

func (i *Incident) HasAssignedResource(resourceID primitive.ObjectID) bool {
	for _, id := range i.AssignedResources {
		if id == resourceID {
			return true
		}
	}
	return false
}

func ValidSeverity(s IncidentSeverity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func ValidIncidentType(t IncidentType) bool {
	switch t {
	case IncidentTypeMedical, IncidentTypeFire, IncidentTypeOvercrowding, IncidentTypeSecurity, IncidentTypeOther:
		return true
	}
	return false
}
