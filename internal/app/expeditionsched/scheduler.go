// Package expeditionsched advances every active expedition: event
// generation while exploring, progress tracking on the return leg.
package expeditionsched

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/expedition"
)

const (
	// DefaultInterval between passes.
	DefaultInterval = 60 * time.Second
	// EventJitterMinutes widens the gap between random events by a
	// uniform offset in [-EventJitterMinutes, +EventJitterMinutes].
	EventJitterMinutes = 10
)

// Scheduler owns the expedition tick loop. EventIntervalMinutes is the mean
// gap between random events; tests shrink it and drive Tick directly.
type Scheduler struct {
	Interval             time.Duration
	EventIntervalMinutes int
	Now                  func() time.Time

	expeditions ports.ExpeditionRepository
	notifier    ports.Notifier
	log         *zap.Logger
	metrics     ports.SchedulerMetrics

	cancel context.CancelFunc
	done   chan struct{}
}

func New(expeditions ports.ExpeditionRepository, notifier ports.Notifier, log *zap.Logger, metrics ports.SchedulerMetrics) *Scheduler {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Scheduler{
		Interval:             DefaultInterval,
		EventIntervalMinutes: expedition.DefaultEventIntervalMinutes,
		Now:                  time.Now,
		expeditions:          expeditions,
		notifier:             notifier,
		log:                  log.Named("expeditionsched"),
		metrics:              metrics,
	}
}

// Start launches the tick loop in its own goroutine.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
	s.log.Info("expedition scheduler started", zap.Duration("interval", s.Interval))
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Info("expedition scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one pass over every active expedition with per-entity failure
// isolation.
func (s *Scheduler) Tick(ctx context.Context) {
	s.metrics.RecordTick("expedition")
	active, err := s.expeditions.ListActive(ctx)
	if err != nil {
		s.log.Warn("list active expeditions failed", zap.Error(err))
		return
	}
	for i := range active {
		if err := s.processExpedition(ctx, &active[i]); err != nil {
			s.metrics.RecordEntityFailure("expedition")
			s.log.Warn("expedition tick failed",
				zap.String("expedition_id", active[i].ID.String()),
				zap.Error(err))
			continue
		}
		s.metrics.RecordEntityProcessed("expedition")
	}
}

func (s *Scheduler) processExpedition(ctx context.Context, e *expedition.Expedition) error {
	now := s.Now()
	var changed bool
	switch e.Status {
	case expedition.StatusExploring:
		changed = s.advanceExploring(e, now)
	case expedition.StatusReturning:
		if e.ReturnProgress(now) >= 1 {
			e.Complete()
			s.notifier.NotifyExplorerReturned(e.VaultID, *e)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	expected := e.Version
	e.Version++
	if err := s.expeditions.SaveWithVersion(ctx, *e, expected); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			s.log.Debug("expedition save conflict", zap.String("expedition_id", e.ID.String()))
			return nil
		}
		return err
	}
	if e.Status == expedition.StatusDead {
		s.notifier.NotifyExplorerDied(e.VaultID, *e)
	}
	return nil
}

// advanceExploring applies one tick to an exploring trip and reports whether
// anything mutated. Exactly one event fires per tick: the scripted minute-60
// loot beat takes priority over the random roll.
func (s *Scheduler) advanceExploring(e *expedition.Expedition, now time.Time) bool {
	minute := e.ElapsedMinutes(now)

	if e.InventoryFull() {
		e.StartReturn(now)
		return true
	}
	if !e.Alive() {
		// The damage pipeline marks deaths inline; this catches rows
		// persisted at zero HP before the status flipped.
		e.MarkDead(minute)
		return true
	}

	if e.LastEventMinute < expedition.GuaranteedLootMinute && minute >= expedition.GuaranteedLootMinute {
		if _, ok := expedition.GenerateForcedEvent(e, expedition.EventLootDiscovery, expedition.GuaranteedLootMinute); ok {
			e.LastEventMinute = expedition.GuaranteedLootMinute
			return true
		}
		return false
	}

	gap := s.EventIntervalMinutes + rand.IntN(2*EventJitterMinutes+1) - EventJitterMinutes
	if minute-e.LastEventMinute < gap {
		return false
	}
	if _, ok := expedition.GenerateEvent(e, minute); !ok {
		return false
	}
	e.LastEventMinute = minute
	return true
}
