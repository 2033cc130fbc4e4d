// Package resourcesched settles power, production, and consumption for every
// vault on a fixed interval.
package resourcesched

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/vault"
)

const (
	// DefaultInterval between passes.
	DefaultInterval = 60 * time.Second
	// MinElapsedMinutes debounces a vault against rapid restarts.
	MinElapsedMinutes = 0.1
)

// Scheduler owns the resource tick loop. Interval and Now may be overridden
// before Start; tests drive Tick directly.
type Scheduler struct {
	Interval time.Duration
	Now      func() time.Time

	vaults   ports.VaultRepository
	rooms    ports.RoomRepository
	dwellers ports.DwellerRepository
	log      *zap.Logger
	metrics  ports.SchedulerMetrics

	cancel context.CancelFunc
	done   chan struct{}
}

func New(vaults ports.VaultRepository, rooms ports.RoomRepository, dwellers ports.DwellerRepository, log *zap.Logger, metrics ports.SchedulerMetrics) *Scheduler {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Scheduler{
		Interval: DefaultInterval,
		Now:      time.Now,
		vaults:   vaults,
		rooms:    rooms,
		dwellers: dwellers,
		log:      log.Named("resourcesched"),
		metrics:  metrics,
	}
}

// Start launches the tick loop in its own goroutine.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
	s.log.Info("resource scheduler started", zap.Duration("interval", s.Interval))
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Info("resource scheduler stopped")
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

// Tick runs one pass over every vault. A failure in one vault is logged and
// the pass continues with the next.
func (s *Scheduler) Tick(ctx context.Context) {
	s.metrics.RecordTick("resource")
	vaults, err := s.vaults.List(ctx)
	if err != nil {
		s.log.Warn("list vaults failed", zap.Error(err))
		return
	}
	for i := range vaults {
		if err := s.processVault(ctx, &vaults[i]); err != nil {
			s.metrics.RecordEntityFailure("resource")
			s.log.Warn("vault settlement failed",
				zap.String("vault_id", vaults[i].ID.String()),
				zap.Error(err))
			continue
		}
		s.metrics.RecordEntityProcessed("resource")
	}
}

func (s *Scheduler) processVault(ctx context.Context, v *vault.Vault) error {
	now := s.Now()
	elapsed := now.Sub(v.LastUpdate).Minutes()
	if elapsed < MinElapsedMinutes {
		return nil
	}

	rooms, err := s.rooms.ListByVault(ctx, v.ID)
	if err != nil {
		return err
	}
	residents, err := s.dwellers.ListByVault(ctx, v.ID, ports.DwellerFilter{})
	if err != nil {
		return err
	}
	crews := crewsByRoom(rooms, residents)

	dirty := make(map[int]bool)
	balance := vault.SettlePowerBalance(v, rooms, crews, elapsed)
	for _, i := range balance.RoomsChanged {
		dirty[i] = true
	}

	for i := range rooms {
		if !rooms[i].Type.IsProduction() {
			continue
		}
		yield, credited := vault.SettleProduction(v, &rooms[i], crews[i], elapsed)
		rooms[i].LastProductionUpdate = now
		dirty[i] = true
		if credited {
			s.log.Debug("production cycle credited",
				zap.String("vault_id", v.ID.String()),
				zap.String("room_type", string(rooms[i].Type)),
				zap.Int("cycles", yield.Cycles),
				zap.Float64("amount", yield.Amount))
		}
	}

	for i := range rooms {
		if !dirty[i] {
			continue
		}
		if err := s.saveRoom(ctx, &rooms[i]); err != nil {
			return err
		}
	}

	cons := vault.SettleConsumption(v, len(residents), elapsed)
	if cons.HPDamage > 0 || cons.Rads > 0 {
		for i := range residents {
			d := &residents[i]
			if !d.Alive() {
				continue
			}
			d.TakeDamage(cons.HPDamage)
			d.AddRadiation(cons.Rads)
			if err := s.saveDweller(ctx, d); err != nil {
				return err
			}
		}
	}

	v.LastUpdate = now
	expected := v.Version
	v.Version++
	if err := s.vaults.SaveWithVersion(ctx, *v, expected); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			// Another writer won the race; the next tick settles the rest.
			return nil
		}
		return err
	}
	return nil
}

func (s *Scheduler) saveRoom(ctx context.Context, r *vault.Room) error {
	expected := r.Version
	r.Version++
	err := s.rooms.SaveWithVersion(ctx, *r, expected)
	if errors.Is(err, ports.ErrConflict) {
		s.log.Debug("room save conflict", zap.String("room_id", r.ID.String()))
		return nil
	}
	return err
}

func (s *Scheduler) saveDweller(ctx context.Context, d *dweller.Dweller) error {
	expected := d.Version
	d.Version++
	err := s.dwellers.SaveWithVersion(ctx, *d, expected)
	if errors.Is(err, ports.ErrConflict) {
		s.log.Debug("dweller save conflict", zap.String("dweller_id", d.ID.String()))
		return nil
	}
	return err
}

// crewsByRoom groups alive assigned dwellers by index into the rooms slice.
// Assignments pointing at unknown rooms are ignored.
func crewsByRoom(rooms []vault.Room, residents []dweller.Dweller) map[int]vault.Crew {
	index := make(map[uuid.UUID]int, len(rooms))
	for i := range rooms {
		index[rooms[i].ID] = i
	}
	crews := make(map[int]vault.Crew)
	for i := range residents {
		d := residents[i]
		if d.AssignedRoomID == nil || !d.Alive() {
			continue
		}
		ri, ok := index[*d.AssignedRoomID]
		if !ok {
			continue
		}
		crews[ri] = append(crews[ri], d)
	}
	return crews
}
