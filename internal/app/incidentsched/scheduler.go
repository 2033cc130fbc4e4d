// Package incidentsched resolves active incident combat on a short tick and
// periodically rolls for new random incidents.
package incidentsched

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

const (
	// DefaultInterval between combat passes.
	DefaultInterval = 5 * time.Second
	// SpawnCheckTicks: every Nth combat tick also runs the random spawn
	// pass, roughly once a minute at the default interval.
	SpawnCheckTicks = 12

	// DefaultSpawnChance per vault per spawn check.
	DefaultSpawnChance = 0.1
	// DefaultSpawnCooldown between random incidents in one vault.
	DefaultSpawnCooldown = 5 * time.Minute

	// DefaultWeaponMin and DefaultWeaponMax bound the unarmed dweller hit.
	// Equipment plugs in here once it exists.
	DefaultWeaponMin = 1
	DefaultWeaponMax = 2
)

// Scheduler owns the incident tick loop. Combat inputs and spawn tuning are
// exported so composition and tests can override them before Start.
type Scheduler struct {
	Interval      time.Duration
	SpawnChance   float64
	SpawnCooldown time.Duration
	WeaponMin     int
	WeaponMax     int
	PetBonus      int
	Now           func() time.Time

	vaults    ports.VaultRepository
	rooms     ports.RoomRepository
	dwellers  ports.DwellerRepository
	incidents ports.IncidentRepository
	notifier  ports.Notifier
	log       *zap.Logger
	metrics   ports.SchedulerMetrics

	cooldowns *cooldownMap
	tickCount int

	cancel context.CancelFunc
	done   chan struct{}
}

func New(vaults ports.VaultRepository, rooms ports.RoomRepository, dwellers ports.DwellerRepository, incidents ports.IncidentRepository, notifier ports.Notifier, log *zap.Logger, metrics ports.SchedulerMetrics) *Scheduler {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Scheduler{
		Interval:      DefaultInterval,
		SpawnChance:   DefaultSpawnChance,
		SpawnCooldown: DefaultSpawnCooldown,
		WeaponMin:     DefaultWeaponMin,
		WeaponMax:     DefaultWeaponMax,
		Now:           time.Now,
		vaults:        vaults,
		rooms:         rooms,
		dwellers:      dwellers,
		incidents:     incidents,
		notifier:      notifier,
		log:           log.Named("incidentsched"),
		metrics:       metrics,
		cooldowns:     newCooldownMap(),
	}
}

// Start launches the tick loop in its own goroutine.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
	s.log.Info("incident scheduler started", zap.Duration("interval", s.Interval))
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Info("incident scheduler stopped")
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

// Tick resolves one combat round for every active incident and, on every
// SpawnCheckTicks-th call, runs the random spawn pass.
func (s *Scheduler) Tick(ctx context.Context) {
	s.tickCount++
	s.metrics.RecordTick("incident")

	active, err := s.incidents.ListActive(ctx)
	if err != nil {
		s.log.Warn("list active incidents failed", zap.Error(err))
	} else {
		for i := range active {
			if err := s.processIncident(ctx, &active[i]); err != nil {
				s.metrics.RecordEntityFailure("incident")
				s.log.Warn("incident tick failed",
					zap.String("incident_id", active[i].ID.String()),
					zap.Error(err))
				continue
			}
			s.metrics.RecordEntityProcessed("incident")
		}
	}

	if s.tickCount%SpawnCheckTicks == 0 {
		s.spawnPass(ctx)
	}
}

func (s *Scheduler) processIncident(ctx context.Context, in *incident.Incident) error {
	now := s.Now()

	defenders, err := s.dwellers.ListByVault(ctx, in.VaultID, ports.DwellerFilter{
		RoomID:    &in.RoomID,
		AliveOnly: true,
	})
	if err != nil {
		return err
	}

	if in.Type.StealsCaps() {
		if err := s.stealCaps(ctx, in, now); err != nil {
			return err
		}
	}

	if len(defenders) == 0 {
		if in.Type.Spreads() {
			if err := s.trySpread(ctx, in, now); err != nil {
				return err
			}
		}
		return s.saveIncident(ctx, in)
	}

	// fought counts defenders who attacked before the incident fell.
	fought := 0
	for i := range defenders {
		d := &defenders[i]
		damage := incident.DwellerDamage(s.WeaponMin, s.WeaponMax, s.PetBonus)
		in.TakeDamage(damage, d.Name, now)
		fought++
		if !in.IsActive {
			break
		}
		ret := in.Retaliate(d.Name, now)
		d.TakeDamage(float64(ret.Damage))
		d.AddRadiation(float64(ret.Rads))
		if !d.Alive() {
			in.LogDefenderDeath(d.Name, now)
		}
		// Persist immediately so a mid-loop death is visible downstream.
		if err := s.saveDweller(ctx, d); err != nil {
			return err
		}
	}

	if !in.IsActive {
		if err := s.distributeRewards(ctx, in, defenders[:fought]); err != nil {
			return err
		}
		s.log.Info("incident defeated",
			zap.String("vault_id", in.VaultID.String()),
			zap.String("type", string(in.Type)),
			zap.Int("defenders", len(defenders)))
	}

	return s.saveIncident(ctx, in)
}

// stealCaps drains the vault at the raider rate for this tick.
func (s *Scheduler) stealCaps(ctx context.Context, in *incident.Incident, now time.Time) error {
	v, err := s.vaults.GetByID(ctx, in.VaultID)
	if err != nil {
		return err
	}
	stolen := in.StealCaps(v.Caps, s.Interval.Seconds(), now)
	if stolen == 0 {
		return nil
	}
	v.Caps -= stolen
	return s.saveVault(ctx, &v)
}

// distributeRewards pays out a defeated incident: stolen caps plus the type
// bounty back to the vault, XP split across every surviving defender who
// fought.
func (s *Scheduler) distributeRewards(ctx context.Context, in *incident.Incident, fought []dweller.Dweller) error {
	v, err := s.vaults.GetByID(ctx, in.VaultID)
	if err != nil {
		return err
	}
	v.AddCaps(in.CapsStolen + in.Type.CapsReward())
	if err := s.saveVault(ctx, &v); err != nil {
		return err
	}

	xp := in.XPPerDefender(len(fought))
	for i := range fought {
		d := &fought[i]
		if !d.Alive() {
			continue
		}
		d.AddExperience(xp)
		if err := s.saveDweller(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// trySpread infects one random undefended room horizontally adjacent to the
// incident's origin room. Spread is gradual: one candidate per check.
func (s *Scheduler) trySpread(ctx context.Context, in *incident.Incident, now time.Time) error {
	rooms, err := s.rooms.ListByVault(ctx, in.VaultID)
	if err != nil {
		return err
	}
	var origin *vault.Room
	for i := range rooms {
		if rooms[i].ID == in.RoomID {
			origin = &rooms[i]
			break
		}
	}
	if origin == nil {
		s.log.Warn("incident room missing, skipping spread",
			zap.String("incident_id", in.ID.String()),
			zap.String("room_id", in.RoomID.String()))
		return nil
	}

	alive, err := s.dwellers.ListByVault(ctx, in.VaultID, ports.DwellerFilter{AliveOnly: true})
	if err != nil {
		return err
	}
	occupied := make(map[string]bool)
	for i := range alive {
		if alive[i].AssignedRoomID != nil {
			occupied[alive[i].AssignedRoomID.String()] = true
		}
	}

	var candidates []*vault.Room
	for i := range rooms {
		r := &rooms[i]
		if r.Y != origin.Y || in.HasSpreadTo(r.ID) || occupied[r.ID.String()] {
			continue
		}
		if origin.X+origin.Width == r.X || r.X+r.Width == origin.X {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	target := candidates[rand.IntN(len(candidates))]
	in.SpreadTo(target.ID, now)
	s.log.Info("incident spread",
		zap.String("incident_id", in.ID.String()),
		zap.String("room_id", target.ID.String()))
	return nil
}

// spawnPass rolls a random incident for every vault off cooldown.
func (s *Scheduler) spawnPass(ctx context.Context) {
	vaults, err := s.vaults.List(ctx)
	if err != nil {
		s.log.Warn("list vaults for spawn pass failed", zap.Error(err))
		return
	}
	now := s.Now()
	for i := range vaults {
		v := &vaults[i]
		if !s.cooldowns.Ready(v.ID, now, s.SpawnCooldown) {
			continue
		}
		if rand.Float64() >= s.SpawnChance {
			continue
		}
		if err := s.spawnIncident(ctx, v, now); err != nil {
			s.log.Warn("incident spawn failed",
				zap.String("vault_id", v.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *Scheduler) spawnIncident(ctx context.Context, v *vault.Vault, now time.Time) error {
	residents, err := s.dwellers.ListByVault(ctx, v.ID, ports.DwellerFilter{})
	if err != nil {
		return err
	}
	types := incident.AvailableTypes(len(residents))
	t, ok := incident.PickWeighted(types)
	if !ok {
		return nil
	}

	rooms, err := s.rooms.ListByVault(ctx, v.ID)
	if err != nil {
		return err
	}
	var targets []*vault.Room
	for i := range rooms {
		if !rooms[i].Type.IsInfrastructure() {
			targets = append(targets, &rooms[i])
		}
	}
	if len(targets) == 0 {
		return nil
	}
	room := targets[rand.IntN(len(targets))]

	in := incident.New(v.ID, room.ID, t, room.Level, room.Width, avgLevel(residents), now)
	if err := s.incidents.Create(ctx, in); err != nil {
		return err
	}
	s.cooldowns.MarkSpawned(v.ID, now)
	s.notifier.NotifyIncidentSpawned(v.ID, in)
	s.log.Info("incident spawned",
		zap.String("vault_id", v.ID.String()),
		zap.String("type", string(t)),
		zap.String("room_id", room.ID.String()))
	return nil
}

func avgLevel(residents []dweller.Dweller) int {
	if len(residents) == 0 {
		return 1
	}
	sum := 0
	for i := range residents {
		sum += residents[i].Level
	}
	return sum / len(residents)
}

func (s *Scheduler) saveIncident(ctx context.Context, in *incident.Incident) error {
	expected := in.Version
	in.Version++
	err := s.incidents.SaveWithVersion(ctx, *in, expected)
	if errors.Is(err, ports.ErrConflict) {
		s.log.Debug("incident save conflict", zap.String("incident_id", in.ID.String()))
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

func (s *Scheduler) saveVault(ctx context.Context, v *vault.Vault) error {
	expected := v.Version
	v.Version++
	err := s.vaults.SaveWithVersion(ctx, *v, expected)
	if errors.Is(err, ports.ErrConflict) {
		s.log.Debug("vault save conflict", zap.String("vault_id", v.ID.String()))
		return nil
	}
	return err
}
