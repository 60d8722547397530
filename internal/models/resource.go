package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResourceType string
type ResourceStatus string

const (
	ResourceTypeAmbulance    ResourceType = "ambulance"
	ResourceTypeFirstAidTeam ResourceType = "first_aid_team"
	ResourceTypeMedicalBooth ResourceType = "medical_booth"

	ResourceStatusAvailable   ResourceStatus = "available"
	ResourceStatusEnRoute     ResourceStatus = "en_route"
	ResourceStatusBusy        ResourceStatus = "busy"
	ResourceStatusMaintenance ResourceStatus = "maintenance"
)

// RouteInfo is the route a resource is currently driving/walking.
// Points is a straight-line placeholder path, not a map-matched route.
type RouteInfo struct {
	Destination Location   `json:"destination" bson:"destination"`
	ETA         time.Time  `json:"eta" bson:"eta"`
	Points      []GeoPoint `json:"points" bson:"points"`
}

type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// ResponseRecord is one entry of a resource's dispatch history. A record
// is opened at dispatch time and closed out when the incident resolves.
type ResponseRecord struct {
	IncidentID   primitive.ObjectID `json:"incident_id" bson:"incident_id"`
	DispatchedAt time.Time          `json:"dispatched_at" bson:"dispatched_at"`
	CompletedAt  *time.Time         `json:"completed_at" bson:"completed_at"`
	PlannedTime  float64            `json:"planned_time_seconds" bson:"planned_time_seconds"`
	ActualTime   *float64           `json:"actual_time_seconds" bson:"actual_time_seconds"`
	DistanceM    float64            `json:"distance_meters" bson:"distance_meters"`
}

// Resource is a dispatchable unit: ambulance, foot team or a fixed booth.
// Invariant: AssignedIncident is set iff Status is en_route or busy;
// available implies no assignment and no route.
type Resource struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name             string              `json:"name" bson:"name" validate:"required"`
	Type             ResourceType        `json:"type" bson:"type" validate:"required"`
	Status           ResourceStatus      `json:"status" bson:"status"`
	Location         Location            `json:"location" bson:"location"`
	AssignedIncident *primitive.ObjectID `json:"assigned_incident" bson:"assigned_incident"`
	CurrentRoute     *RouteInfo          `json:"current_route" bson:"current_route"`
	ResponseHistory  []ResponseRecord    `json:"response_history" bson:"response_history"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

// Dispatchable reports whether the resource may be auto-selected for a
// new incident. Fixed booths never move and are excluded from active
// response.
func (r *Resource) Dispatchable() bool {
	if r.Type == ResourceTypeMedicalBooth {
		return false
	}
	return r.Status == ResourceStatusAvailable || r.Status == ResourceStatusEnRoute
}
