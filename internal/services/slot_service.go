package services

import (
	"context"
	"time"

	"yatraseva/internal/events"
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/utils"
	"yatraseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SlotService interface {
	Create(ctx context.Context, request *models.CreateSlotRequest) (*models.Slot, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Slot, error)
	List(ctx context.Context, from *time.Time, params *utils.PaginationParams) ([]*models.Slot, int64, error)

	// Availability returns slots with their remaining seat counts,
	// the booking-UI view.
	Availability(ctx context.Context, from *time.Time, params *utils.PaginationParams) ([]*models.SlotAvailability, int64, error)

	// Lock and Unlock are the manual admin overrides alongside the
	// automatic occupancy sweep.
	Lock(ctx context.Context, id primitive.ObjectID, reason string) (*models.Slot, error)
	Unlock(ctx context.Context, id primitive.ObjectID) (*models.Slot, error)
}

type slotService struct {
	slotRepo  interfaces.SlotRepository
	publisher events.Publisher
	logger    *logger.Logger
}

func NewSlotService(slotRepo interfaces.SlotRepository, publisher events.Publisher, log *logger.Logger) SlotService {
	return &slotService{
		slotRepo:  slotRepo,
		publisher: publisher,
		logger:    log,
	}
}

func (s *slotService) Create(ctx context.Context, request *models.CreateSlotRequest) (*models.Slot, error) {
	now := time.Now()
	slot := &models.Slot{
		Date:      request.Date,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Zone:      request.Zone,
		Capacity:  request.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.WithField("slot_id", slot.ID.Hex()).WithField("capacity", slot.Capacity).Info("Slot created")
	return slot, nil
}

func (s *slotService) Get(ctx context.Context, id primitive.ObjectID) (*models.Slot, error) {
	return s.slotRepo.GetByID(ctx, id)
}

func (s *slotService) List(ctx context.Context, from *time.Time, params *utils.PaginationParams) ([]*models.Slot, int64, error) {
	return s.slotRepo.List(ctx, from, params)
}

func (s *slotService) Availability(ctx context.Context, from *time.Time, params *utils.PaginationParams) ([]*models.SlotAvailability, int64, error) {
	slots, total, err := s.slotRepo.List(ctx, from, params)
	if err != nil {
		return nil, 0, err
	}

	availability := make([]*models.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		availability = append(availability, &models.SlotAvailability{
			Slot:      slot,
			Remaining: slot.Remaining(),
		})
	}

	return availability, total, nil
}

func (s *slotService) Lock(ctx context.Context, id primitive.ObjectID, reason string) (*models.Slot, error) {
	if reason == "" {
		reason = "manual lock"
	}

	locked, err := s.slotRepo.Lock(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if locked {
		s.logger.LogCrowdEvent("slot_locked", "info", map[string]interface{}{
			"slot_id": id.Hex(),
			"reason":  reason,
		})
		s.publisher.Publish(ctx, events.SlotLocked(slot, reason))
	}

	return slot, nil
}

func (s *slotService) Unlock(ctx context.Context, id primitive.ObjectID) (*models.Slot, error) {
	if err := s.slotRepo.Unlock(ctx, id); err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("slot_id", id.Hex()).Info("Slot unlocked")
	return slot, nil
}
