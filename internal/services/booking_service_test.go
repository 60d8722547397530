package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingFixture struct {
	service   BookingService
	slots     *fakeSlotRepo
	bookings  *fakeBookingRepo
	publisher *recordingPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	slots := newFakeSlotRepo()
	bookings := newFakeBookingRepo()
	publisher := &recordingPublisher{}

	service := NewBookingService(bookings, slots, &fakeTransactor{}, publisher, testLogger())

	return &bookingFixture{
		service:   service,
		slots:     slots,
		bookings:  bookings,
		publisher: publisher,
	}
}

func (f *bookingFixture) addSlot(t *testing.T, capacity, booked int, locked bool) *models.Slot {
	t.Helper()
	slot := &models.Slot{
		Date:        time.Now().Add(24 * time.Hour),
		StartTime:   "06:00",
		EndTime:     "08:00",
		Capacity:    capacity,
		BookedCount: booked,
		Locked:      locked,
	}
	require.NoError(t, f.slots.Create(context.Background(), slot))
	return slot
}

func TestReserveBooksSeatsAndPublishes(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 100, 0, false)
	userID := primitive.NewObjectID()

	booking, err := f.service.Reserve(ctx, userID, &models.CreateBookingRequest{
		SlotID:  slot.ID.Hex(),
		Members: []models.BookingMember{{Name: "Asha", Age: 34}, {Name: "Ravi", Age: 61}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, booking.Headcount)
	assert.Equal(t, models.BookingStatusBooked, booking.Status)
	assert.NotEmpty(t, booking.Reference)

	updated, err := f.slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.BookedCount)

	capacityEvents := f.publisher.byType(events.EventCapacityChanged)
	require.Len(t, capacityEvents, 1)
	assert.Equal(t, 3, capacityEvents[0].Data["booked_count"])
}

func TestReserveRejectsLockedSlot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 100, 0, true)

	_, err := f.service.Reserve(ctx, primitive.NewObjectID(), &models.CreateBookingRequest{SlotID: slot.ID.Hex()})
	require.ErrorIs(t, err, interfaces.ErrSlotLocked)

	// no partial effect: no booking, counter untouched
	updated, err := f.slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.BookedCount)
	assert.Empty(t, f.publisher.byType(events.EventCapacityChanged))
}

func TestReserveRejectsOverCapacity(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 10, 9, false)
	userID := primitive.NewObjectID()

	// headcount 2 would land at 11
	_, err := f.service.Reserve(ctx, userID, &models.CreateBookingRequest{
		SlotID:  slot.ID.Hex(),
		Members: []models.BookingMember{{Name: "Asha"}},
	})
	require.ErrorIs(t, err, interfaces.ErrCapacityExceeded)

	updated, err := f.slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.BookedCount)

	bookings, _, err := f.bookings.ListByUser(ctx, userID, nil)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestConcurrentReservesNeverExceedCapacity(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 10, 0, false)

	const attempts = 40
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Reserve(ctx, primitive.NewObjectID(), &models.CreateBookingRequest{
				SlotID: slot.ID.Hex(),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, interfaces.ErrCapacityExceeded)
		}
	}

	assert.Equal(t, 10, succeeded)
	updated, err := f.slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.BookedCount)
}

func TestReleaseReturnsSeats(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 100, 0, false)
	userID := primitive.NewObjectID()

	booking, err := f.service.Reserve(ctx, userID, &models.CreateBookingRequest{
		SlotID:  slot.ID.Hex(),
		Members: []models.BookingMember{{Name: "Asha"}},
	})
	require.NoError(t, err)

	cancelled, err := f.service.Release(ctx, booking.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	updated, err := f.slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.BookedCount)

	capacityEvents := f.publisher.byType(events.EventCapacityChanged)
	require.Len(t, capacityEvents, 2)
	assert.Equal(t, 0, capacityEvents[1].Data["booked_count"])
}

func TestReleaseRejectsDoubleCancel(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 100, 0, false)
	userID := primitive.NewObjectID()

	booking, err := f.service.Reserve(ctx, userID, &models.CreateBookingRequest{SlotID: slot.ID.Hex()})
	require.NoError(t, err)

	_, err = f.service.Release(ctx, booking.ID, userID, false)
	require.NoError(t, err)

	_, err = f.service.Release(ctx, booking.ID, userID, false)
	require.ErrorIs(t, err, interfaces.ErrBookingNotCancellable)

	// the second attempt must not decrement again
	updated, err := f.slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.BookedCount)
}

func TestReleaseRejectsForeignBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 100, 0, false)
	owner := primitive.NewObjectID()

	booking, err := f.service.Reserve(ctx, owner, &models.CreateBookingRequest{SlotID: slot.ID.Hex()})
	require.NoError(t, err)

	_, err = f.service.Release(ctx, booking.ID, primitive.NewObjectID(), false)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	// an admin may cancel on the owner's behalf
	_, err = f.service.Release(ctx, booking.ID, primitive.NewObjectID(), true)
	assert.NoError(t, err)
}
