package interfaces

import (
	"context"

	"yatraseva/internal/models"
	"yatraseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentFilter struct {
	Status   *models.IncidentStatus
	Type     *models.IncidentType
	Severity *models.IncidentSeverity
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Incident, error)
	List(ctx context.Context, filter *IncidentFilter, params *utils.PaginationParams) ([]*models.Incident, int64, error)
	GetActive(ctx context.Context) ([]*models.Incident, error)

	// Update applies field-level updates. The response log is excluded;
	// it only ever grows through AppendLog.
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// AppendLog pushes one entry onto the append-only response log.
	AppendLog(ctx context.Context, id primitive.ObjectID, entry models.ResponseLogEntry) error

	// AddAssignedResource adds the resource id to the assigned set,
	// idempotently.
	AddAssignedResource(ctx context.Context, id primitive.ObjectID, resourceID primitive.ObjectID) error
}
