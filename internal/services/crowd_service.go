package services

import (
	"context"
	"fmt"
	"time"

	"yatraseva/internal/config"
	"yatraseva/internal/events"
	"yatraseva/internal/geo"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/pkg/logger"
)

// checkpoints are the fixed sampling points the density sweep reads.
// Corridor gates around the main approach; the summed reading stands in
// for live occupancy telemetry until the sampler is backed by sensors.
var checkpoints = []geo.Point{
	{Lat: 23.1800, Lng: 75.7680},
	{Lat: 23.1815, Lng: 75.7692},
	{Lat: 23.1828, Lng: 75.7704},
	{Lat: 23.1840, Lng: 75.7715},
	{Lat: 23.1852, Lng: 75.7727},
}

type CrowdControlService interface {
	// Start runs the sweep loop until the context is cancelled. An
	// error or panic inside one tick never stops the next tick.
	Start(ctx context.Context)

	// RunSweep executes one sweep pass: lock near-full slots, then
	// evaluate the density condition. With several servers running, only
	// the lease holder does the work; the rest return immediately.
	RunSweep(ctx context.Context) error
}

// SweepLease grants one instance per interval the right to run the
// sweep. Satisfied by *cache.RedisCache via SETNX with a TTL.
type SweepLease interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

const sweepLeaseKey = "crowd:sweep:lease"

type crowdControlService struct {
	slotRepo  interfaces.SlotRepository
	publisher events.Publisher
	sampler   geo.DensitySampler
	lease     SweepLease
	cfg       *config.CrowdConfig
	logger    *logger.Logger
}

func NewCrowdControlService(
	slotRepo interfaces.SlotRepository,
	publisher events.Publisher,
	sampler geo.DensitySampler,
	lease SweepLease,
	cfg *config.CrowdConfig,
	log *logger.Logger,
) CrowdControlService {
	return &crowdControlService{
		slotRepo:  slotRepo,
		publisher: publisher,
		sampler:   sampler,
		lease:     lease,
		cfg:       cfg,
		logger:    log,
	}
}

func (s *crowdControlService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.WithField("interval", s.cfg.SweepInterval.String()).Info("Crowd control sweep started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Crowd control sweep stopped")
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *crowdControlService) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", fmt.Sprintf("%v", r)).Error("Crowd sweep tick panicked")
		}
	}()

	if err := s.RunSweep(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("Crowd sweep tick failed")
	}
}

func (s *crowdControlService) RunSweep(ctx context.Context) error {
	if !s.acquireLease(ctx) {
		return nil
	}

	if err := s.lockFullSlots(ctx); err != nil {
		return err
	}

	s.checkDensity(ctx)
	return nil
}

// acquireLease claims this interval's sweep. Losing the claim means a
// sibling instance already swept; a lease backend failure never blocks
// the sweep.
func (s *crowdControlService) acquireLease(ctx context.Context) bool {
	if s.lease == nil {
		return true
	}

	held, err := s.lease.SetNX(ctx, sweepLeaseKey, time.Now().Unix(), s.cfg.SweepInterval)
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("Sweep lease unavailable, sweeping anyway")
		return true
	}
	return held
}

func (s *crowdControlService) lockFullSlots(ctx context.Context) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots, err := s.slotRepo.ListLockCandidates(ctx, from, s.cfg.OccupancyLockThreshold)
	if err != nil {
		return fmt.Errorf("failed to list lock candidates: %w", err)
	}

	for _, slot := range slots {
		locked, err := s.slotRepo.Lock(ctx, slot.ID, "high occupancy")
		if err != nil {
			s.logger.WithField("slot_id", slot.ID.Hex()).WithField("error", err.Error()).Error("Failed to lock slot")
			continue
		}
		// a concurrent sweep or admin may have locked it first; only
		// the writer that flipped the flag announces it
		if !locked {
			continue
		}

		slot.Locked = true
		slot.LockReason = "high occupancy"

		s.logger.LogCrowdEvent("slot_locked", "warning", map[string]interface{}{
			"slot_id":      slot.ID.Hex(),
			"zone":         slot.Zone,
			"booked_count": slot.BookedCount,
			"capacity":     slot.Capacity,
			"occupancy":    slot.Occupancy(),
		})
		s.publisher.Publish(ctx, events.SlotLocked(slot, "high occupancy"))
	}

	return nil
}

func (s *crowdControlService) checkDensity(ctx context.Context) {
	var total float64
	for _, point := range checkpoints {
		total += s.sampler.Density(point)
	}

	if total <= s.cfg.DensityAlertThreshold {
		return
	}

	s.logger.LogCrowdEvent("critical_density", "critical", map[string]interface{}{
		"density":   total,
		"threshold": s.cfg.DensityAlertThreshold,
	})

	if s.cfg.PublishDensityAlerts {
		s.publisher.Publish(ctx, events.DensityAlert("main_corridor", total))
	}
}
