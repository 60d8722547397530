package services

import (
	"context"
	"testing"

	"yatraseva/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newResourceFixture(t *testing.T) (ResourceService, *fakeResourceRepo) {
	t.Helper()
	resources := newFakeResourceRepo()
	return NewResourceService(resources, &recordingPublisher{}, testLogger()), resources
}

func TestResourceCreateStartsAvailable(t *testing.T) {
	service, _ := newResourceFixture(t)

	resource, err := service.Create(context.Background(), &models.CreateResourceRequest{
		Name: "Ambulance 3",
		Type: models.ResourceTypeAmbulance,
		Lat:  23.18,
		Lng:  75.77,
		Zone: "gate_2",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ResourceStatusAvailable, resource.Status)
	assert.Nil(t, resource.AssignedIncident)
	assert.NotNil(t, resource.ResponseHistory)
	assert.InDelta(t, 23.18, resource.Location.Latitude(), 1e-9)
}

func TestStatusOverrideRejectedWhileAssigned(t *testing.T) {
	service, resources := newResourceFixture(t)
	ctx := context.Background()

	resource, err := service.Create(ctx, &models.CreateResourceRequest{
		Name: "Ambulance 3",
		Type: models.ResourceTypeAmbulance,
		Lat:  23.18,
		Lng:  75.77,
	})
	require.NoError(t, err)

	incidentID := primitive.NewObjectID()
	require.NoError(t, resources.Assign(ctx, resource.ID, incidentID, nil, models.ResponseRecord{IncidentID: incidentID}))

	_, err = service.UpdateStatus(ctx, resource.ID, models.ResourceStatusMaintenance)
	assert.ErrorIs(t, err, ErrResourceAssigned)
}

func TestStatusOverrideAfterRelease(t *testing.T) {
	service, _ := newResourceFixture(t)
	ctx := context.Background()

	resource, err := service.Create(ctx, &models.CreateResourceRequest{
		Name: "First Aid C",
		Type: models.ResourceTypeFirstAidTeam,
		Lat:  23.18,
		Lng:  75.77,
	})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(ctx, resource.ID, models.ResourceStatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.ResourceStatusMaintenance, updated.Status)
}

func TestUpdateLocationRejectsBadCoordinates(t *testing.T) {
	service, _ := newResourceFixture(t)
	ctx := context.Background()

	resource, err := service.Create(ctx, &models.CreateResourceRequest{
		Name: "Ambulance 4",
		Type: models.ResourceTypeAmbulance,
		Lat:  23.18,
		Lng:  75.77,
	})
	require.NoError(t, err)

	_, err = service.UpdateLocation(ctx, resource.ID, 120.0, 75.77, "")
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestNearbyReturnsUnitsWithinRadiusNearestFirst(t *testing.T) {
	service, _ := newResourceFixture(t)
	ctx := context.Background()

	// ~111m and ~333m north of the query point; the third unit sits
	// kilometres away and must stay out of a 500m lookup
	near, err := service.Create(ctx, &models.CreateResourceRequest{
		Name: "First Aid A", Type: models.ResourceTypeFirstAidTeam, Lat: 23.1810, Lng: 75.7700,
	})
	require.NoError(t, err)
	mid, err := service.Create(ctx, &models.CreateResourceRequest{
		Name: "Ambulance 1", Type: models.ResourceTypeAmbulance, Lat: 23.1830, Lng: 75.7700,
	})
	require.NoError(t, err)
	_, err = service.Create(ctx, &models.CreateResourceRequest{
		Name: "Far Booth", Type: models.ResourceTypeMedicalBooth, Lat: 23.2300, Lng: 75.7700,
	})
	require.NoError(t, err)

	found, err := service.Nearby(ctx, 23.1800, 75.7700, 500)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, near.ID, found[0].ID)
	assert.Equal(t, mid.ID, found[1].ID)
}

func TestNearbyRejectsBadCoordinates(t *testing.T) {
	service, _ := newResourceFixture(t)

	_, err := service.Nearby(context.Background(), 120.0, 75.77, 500)
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestSeedOnlyRunsOnEmptyDirectory(t *testing.T) {
	service, _ := newResourceFixture(t)
	ctx := context.Background()

	seed := []*models.Resource{
		{Name: "Ambulance 1", Type: models.ResourceTypeAmbulance, Location: models.NewLocation(23.18, 75.77, "")},
		{Name: "Booth 1", Type: models.ResourceTypeMedicalBooth, Location: models.NewLocation(23.18, 75.77, "")},
	}

	inserted, err := service.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = service.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}
