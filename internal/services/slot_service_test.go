package services

import (
	"context"
	"testing"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlotFixture(t *testing.T) (SlotService, *fakeSlotRepo, *recordingPublisher) {
	t.Helper()
	slots := newFakeSlotRepo()
	publisher := &recordingPublisher{}
	return NewSlotService(slots, publisher, testLogger()), slots, publisher
}

func TestAvailabilityReportsRemaining(t *testing.T) {
	service, slots, _ := newSlotFixture(t)
	ctx := context.Background()

	slot := &models.Slot{
		Date:        time.Now().Add(24 * time.Hour),
		StartTime:   "06:00",
		EndTime:     "08:00",
		Capacity:    100,
		BookedCount: 37,
	}
	require.NoError(t, slots.Create(ctx, slot))

	availability, total, err := service.Availability(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, availability, 1)
	assert.Equal(t, 63, availability[0].Remaining)
}

func TestManualLockPublishesOnce(t *testing.T) {
	service, slots, publisher := newSlotFixture(t)
	ctx := context.Background()

	slot := &models.Slot{
		Date:      time.Now().Add(24 * time.Hour),
		StartTime: "06:00",
		EndTime:   "08:00",
		Capacity:  100,
	}
	require.NoError(t, slots.Create(ctx, slot))

	locked, err := service.Lock(ctx, slot.ID, "vip movement")
	require.NoError(t, err)
	assert.True(t, locked.Locked)
	assert.Equal(t, "vip movement", locked.LockReason)

	// relocking an already locked slot is a no-op for subscribers
	_, err = service.Lock(ctx, slot.ID, "vip movement")
	require.NoError(t, err)
	assert.Len(t, publisher.byType(events.EventSlotLocked), 1)

	unlocked, err := service.Unlock(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.Locked)
}
