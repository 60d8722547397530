package services

import (
	"context"
	"testing"
	"time"

	"yatraseva/internal/config"
	"yatraseva/internal/events"
	"yatraseva/internal/geo"
	"yatraseva/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCrowdFixture(t *testing.T, density float64, publishAlerts bool) (CrowdControlService, *fakeSlotRepo, *recordingPublisher) {
	t.Helper()

	slots := newFakeSlotRepo()
	publisher := &recordingPublisher{}
	cfg := &config.CrowdConfig{
		SweepInterval:          time.Second,
		OccupancyLockThreshold: 0.95,
		DensityAlertThreshold:  2.5,
		PublishDensityAlerts:   publishAlerts,
	}

	service := NewCrowdControlService(slots, publisher, geo.FixedSampler{Value: density}, &fakeSweepLease{granted: true}, cfg, testLogger())
	return service, slots, publisher
}

func addSweepSlot(t *testing.T, slots *fakeSlotRepo, capacity, booked int) *models.Slot {
	t.Helper()
	slot := &models.Slot{
		Date:        time.Now().Add(24 * time.Hour),
		StartTime:   "06:00",
		EndTime:     "08:00",
		Capacity:    capacity,
		BookedCount: booked,
	}
	require.NoError(t, slots.Create(context.Background(), slot))
	return slot
}

func TestSweepLocksSlotsAtThreshold(t *testing.T) {
	service, slots, publisher := newCrowdFixture(t, 0.3, false)
	ctx := context.Background()

	full := addSweepSlot(t, slots, 100, 96)
	quiet := addSweepSlot(t, slots, 100, 40)

	require.NoError(t, service.RunSweep(ctx))

	locked, err := slots.GetByID(ctx, full.ID)
	require.NoError(t, err)
	assert.True(t, locked.Locked)
	assert.Equal(t, "high occupancy", locked.LockReason)

	untouched, err := slots.GetByID(ctx, quiet.ID)
	require.NoError(t, err)
	assert.False(t, untouched.Locked)

	lockEvents := publisher.byType(events.EventSlotLocked)
	require.Len(t, lockEvents, 1)
	assert.Equal(t, full.ID.Hex(), lockEvents[0].Data["slot_id"])
	assert.Equal(t, "high occupancy", lockEvents[0].Data["reason"])
}

func TestSweepDoesNotRelockOnSecondPass(t *testing.T) {
	service, slots, publisher := newCrowdFixture(t, 0.3, false)
	ctx := context.Background()

	addSweepSlot(t, slots, 100, 96)

	require.NoError(t, service.RunSweep(ctx))
	require.NoError(t, service.RunSweep(ctx))

	assert.Len(t, publisher.byType(events.EventSlotLocked), 1)
}

func TestSweepLocksExactlyAtThreshold(t *testing.T) {
	service, slots, _ := newCrowdFixture(t, 0.3, false)
	ctx := context.Background()

	boundary := addSweepSlot(t, slots, 100, 95)
	require.NoError(t, service.RunSweep(ctx))

	locked, err := slots.GetByID(ctx, boundary.ID)
	require.NoError(t, err)
	assert.True(t, locked.Locked)
}

func TestCriticalDensityIsNotPublishedByDefault(t *testing.T) {
	// five checkpoints at 0.7 sum to 3.5, past the threshold
	service, _, publisher := newCrowdFixture(t, 0.7, false)

	require.NoError(t, service.RunSweep(context.Background()))
	assert.Empty(t, publisher.byType(events.EventDensityAlert))
}

func TestCriticalDensityPublishesWhenEnabled(t *testing.T) {
	service, _, publisher := newCrowdFixture(t, 0.7, true)

	require.NoError(t, service.RunSweep(context.Background()))

	alerts := publisher.byType(events.EventDensityAlert)
	require.Len(t, alerts, 1)
	assert.InDelta(t, 3.5, alerts[0].Data["density"].(float64), 1e-9)
}

func TestSweepSkipsWhenLeaseIsHeldElsewhere(t *testing.T) {
	slots := newFakeSlotRepo()
	publisher := &recordingPublisher{}
	lease := &fakeSweepLease{granted: false}
	cfg := &config.CrowdConfig{
		SweepInterval:          time.Second,
		OccupancyLockThreshold: 0.95,
		DensityAlertThreshold:  2.5,
	}
	service := NewCrowdControlService(slots, publisher, geo.FixedSampler{Value: 0.3}, lease, cfg, testLogger())
	ctx := context.Background()

	full := addSweepSlot(t, slots, 100, 96)
	require.NoError(t, service.RunSweep(ctx))

	// another instance holds this interval's lease, nothing happens here
	assert.Equal(t, 1, lease.calls)
	untouched, err := slots.GetByID(ctx, full.ID)
	require.NoError(t, err)
	assert.False(t, untouched.Locked)
	assert.Empty(t, publisher.byType(events.EventSlotLocked))
}

func TestQuietDensityRaisesNothing(t *testing.T) {
	service, _, publisher := newCrowdFixture(t, 0.3, true)

	require.NoError(t, service.RunSweep(context.Background()))
	assert.Empty(t, publisher.byType(events.EventDensityAlert))
}
