package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"
	"yatraseva/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	// Reserve books headcount seats (user plus members) against a slot.
	// The capacity check and the booking insert are one atomic unit.
	Reserve(ctx context.Context, userID primitive.ObjectID, request *models.CreateBookingRequest) (*models.Booking, error)

	// Release cancels a booking and reclaims its headcount. Only the
	// booking owner or an admin may cancel.
	Release(ctx context.Context, bookingID, userID primitive.ObjectID, isAdmin bool) (*models.Booking, error)

	Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	slotRepo    interfaces.SlotRepository
	transactor  interfaces.Transactor
	publisher   events.Publisher
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	slotRepo interfaces.SlotRepository,
	transactor interfaces.Transactor,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		transactor:  transactor,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *bookingService) Reserve(ctx context.Context, userID primitive.ObjectID, request *models.CreateBookingRequest) (*models.Booking, error) {
	slotID, err := primitive.ObjectIDFromHex(request.SlotID)
	if err != nil {
		return nil, fmt.Errorf("invalid slot id %q", request.SlotID)
	}

	headcount := 1 + len(request.Members)
	now := time.Now()

	booking := &models.Booking{
		Reference: newBookingReference(),
		UserID:    userID,
		SlotID:    slotID,
		Members:   request.Members,
		Headcount: headcount,
		Status:    models.BookingStatusBooked,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var slot *models.Slot
	err = s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		reserved, err := s.slotRepo.ReserveSeats(txCtx, slotID, headcount)
		if err != nil {
			return err
		}
		slot = reserved

		return s.bookingRepo.Create(txCtx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogCapacityEvent(slotID, "seats_reserved", slot.BookedCount, slot.Capacity)
	s.publisher.Publish(ctx, events.CapacityChanged(slotID, slot.BookedCount))

	return booking, nil
}

func (s *bookingService) Release(ctx context.Context, bookingID, userID primitive.ObjectID, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	var slot *models.Slot
	var cancelled *models.Booking
	err = s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		before, err := s.bookingRepo.Cancel(txCtx, bookingID)
		if err != nil {
			return err
		}
		cancelled = before

		released, err := s.slotRepo.ReleaseSeats(txCtx, before.SlotID, before.Headcount)
		if err != nil {
			return err
		}
		slot = released

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogCapacityEvent(cancelled.SlotID, "seats_released", slot.BookedCount, slot.Capacity)
	s.publisher.Publish(ctx, events.CapacityChanged(cancelled.SlotID, slot.BookedCount))

	return s.bookingRepo.GetByID(ctx, bookingID)
}

func (s *bookingService) Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.ListByUser(ctx, userID, params)
}

func newBookingReference() string {
	return "YTR-" + strings.ToUpper(uuid.New().String()[:8])
}
