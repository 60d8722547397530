package services

import (
	"context"
	"testing"

	"yatraseva/internal/events"
	"yatraseva/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newIncidentFixture(t *testing.T) (IncidentService, *fakeIncidentRepo, *recordingPublisher) {
	t.Helper()
	incidents := newFakeIncidentRepo()
	publisher := &recordingPublisher{}
	return NewIncidentService(incidents, publisher, testLogger()), incidents, publisher
}

func TestReportParsesCoordinatesFromLocationText(t *testing.T) {
	service, _, publisher := newIncidentFixture(t)
	reporterID := primitive.NewObjectID()

	incident, err := service.Report(context.Background(), reporterID, &models.ReportIncidentRequest{
		Type:     models.IncidentTypeMedical,
		Severity: models.SeverityHigh,
		Location: "collapsed pilgrim, GPS: 23.1812, 75.7694",
		Zone:     "corridor_east",
	})
	require.NoError(t, err)

	assert.Equal(t, models.IncidentStatusOpen, incident.Status)
	assert.Equal(t, reporterID, incident.ReporterID)
	require.NotNil(t, incident.Coordinates)
	assert.InDelta(t, 23.1812, incident.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 75.7694, incident.Coordinates.Lng, 1e-9)

	require.Len(t, incident.ResponseLog, 1)
	assert.Equal(t, "reported", incident.ResponseLog[0].Action)

	assert.Len(t, publisher.byType(events.EventIncidentUpdated), 1)
}

func TestReportWithoutCoordinatesStillFiles(t *testing.T) {
	service, _, _ := newIncidentFixture(t)

	incident, err := service.Report(context.Background(), primitive.NewObjectID(), &models.ReportIncidentRequest{
		Type:     models.IncidentTypeOvercrowding,
		Severity: models.SeverityMedium,
		Location: "near the flower sellers by the east steps",
	})
	require.NoError(t, err)
	assert.Nil(t, incident.Coordinates)
	assert.Equal(t, models.IncidentStatusOpen, incident.Status)
}

func TestReportRejectsUnknownTypeAndSeverity(t *testing.T) {
	service, _, _ := newIncidentFixture(t)
	ctx := context.Background()

	_, err := service.Report(ctx, primitive.NewObjectID(), &models.ReportIncidentRequest{
		Type:     "earthquake",
		Severity: models.SeverityHigh,
		Location: "somewhere",
	})
	assert.Error(t, err)

	_, err = service.Report(ctx, primitive.NewObjectID(), &models.ReportIncidentRequest{
		Type:     models.IncidentTypeMedical,
		Severity: "catastrophic",
		Location: "somewhere",
	})
	assert.Error(t, err)
}

func TestGetActiveExcludesResolved(t *testing.T) {
	service, incidents, _ := newIncidentFixture(t)
	ctx := context.Background()

	open, err := service.Report(ctx, primitive.NewObjectID(), &models.ReportIncidentRequest{
		Type:     models.IncidentTypeMedical,
		Severity: models.SeverityHigh,
		Location: "gate 1",
	})
	require.NoError(t, err)

	closed, err := service.Report(ctx, primitive.NewObjectID(), &models.ReportIncidentRequest{
		Type:     models.IncidentTypeSecurity,
		Severity: models.SeverityLow,
		Location: "gate 2",
	})
	require.NoError(t, err)
	require.NoError(t, incidents.Update(ctx, closed.ID, map[string]interface{}{
		"status": models.IncidentStatusResolved,
	}))

	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)
}
