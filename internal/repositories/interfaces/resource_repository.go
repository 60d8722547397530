package interfaces

import (
	"context"
	"time"

	"yatraseva/internal/models"
	"yatraseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceRepository is the only way resource records are mutated.
// Status, assignment and route changes go through Assign/Release/
// UpdateStatus so the assignment invariant holds at every commit.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Resource, error)
	List(ctx context.Context, status *models.ResourceStatus, params *utils.PaginationParams) ([]*models.Resource, int64, error)

	// GetDispatchCandidates returns every resource with status
	// available or en_route, the auto-dispatch candidate pool.
	GetDispatchCandidates(ctx context.Context) ([]*models.Resource, error)

	// FindNearby returns up to limit resources within radiusM meters of
	// the point, nearest first.
	FindNearby(ctx context.Context, lat, lng, radiusM float64, limit int) ([]*models.Resource, error)

	// Assign reserves the resource for an incident: status en_route,
	// assigned incident set, route set when non-nil, and a new open
	// response-history record appended, all in one document update.
	Assign(ctx context.Context, id primitive.ObjectID, incidentID primitive.ObjectID, route *models.RouteInfo, record models.ResponseRecord) error

	// Release returns the resource to available, clears assignment and
	// route, and closes the open history record for incidentID with the
	// completion time and measured duration.
	Release(ctx context.Context, id primitive.ObjectID, incidentID primitive.ObjectID, completedAt time.Time, actualSeconds float64) error

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ResourceStatus) error
	UpdateLocation(ctx context.Context, id primitive.ObjectID, location models.Location) error
}
