package expedition

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"vaultown/internal/domain/dweller"
)

// Status of an expedition.
type Status string

const (
	StatusExploring Status = "exploring"
	StatusReturning Status = "returning"
	StatusCompleted Status = "completed"
	StatusDead      Status = "dead"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusExploring, StatusReturning, StatusCompleted, StatusDead:
		return Status(s), true
	}
	return "", false
}

const (
	// MaxItems an explorer can carry before being forced home.
	MaxItems = 100
	// MaxStimpaks and MaxRadaway carried on departure.
	MaxStimpaks = 25
	MaxRadaway  = 25

	// StimpakThreshold: auto-heal fires under half effective HP.
	StimpakThreshold = 0.5
	// StimpakHealFraction of effective max HP restored per stimpak.
	StimpakHealFraction = 0.45
	// RadawayThreshold: auto-purge fires above half max HP in rads.
	RadawayThreshold = 0.5
	// RadawayRemoveFraction of max HP removed in rads per dose.
	RadawayRemoveFraction = 0.275

	// GuaranteedLootMinute is the scripted first-hour payoff.
	GuaranteedLootMinute = 60
	// DefaultEventIntervalMinutes between random events in production.
	DefaultEventIntervalMinutes = 30
)

// Expedition is a dweller's trip into the wasteland. Vitals and progression
// diverge from the stored dweller until the player collects the result.
type Expedition struct {
	ID           uuid.UUID
	VaultID      uuid.UUID
	DwellerID    uuid.UUID
	DwellerName  string
	Status       Status
	StartTime    time.Time
	ReturnStart  *time.Time
	CurrentHP    float64
	MaxHP        float64
	Radiation    float64
	RadImmune    bool
	Stimpaks     int
	Radaway      int
	Caps         int
	Items        int
	DwellerLevel int
	DwellerXP    int
	Luck         int
	Perception   int
	Charisma     int
	ReturnSpeed  float64
	Events       []Event
	// LastEventMinute is the scheduling cursor for event generation.
	LastEventMinute int
	Version         int64
}

// Launch snapshots a dweller into a new expedition. Radiation immunity is
// cached here from endurance so the scheduler never re-reads the dweller.
func Launch(d *dweller.Dweller, stimpaks, radaway int, returnSpeed float64, now time.Time) Expedition {
	if returnSpeed < 1 {
		returnSpeed = 1
	}
	e := Expedition{
		ID:           uuid.New(),
		VaultID:      d.VaultID,
		DwellerID:    d.ID,
		DwellerName:  d.Name,
		Status:       StatusExploring,
		StartTime:    now,
		CurrentHP:    d.CurrentHP,
		MaxHP:        d.MaxHP,
		Radiation:    d.Radiation,
		RadImmune:    d.Stats.Endurance >= dweller.RadiationImmunityEndurance,
		Stimpaks:     min(stimpaks, MaxStimpaks),
		Radaway:      min(radaway, MaxRadaway),
		DwellerLevel: d.Level,
		DwellerXP:    d.Experience,
		Luck:         d.Stats.Luck,
		Perception:   d.Stats.Perception,
		Charisma:     d.Stats.Charisma,
		ReturnSpeed:  returnSpeed,
	}
	e.log(Event{
		Type:        EventLootDiscovery,
		Minute:      0,
		Description: fmt.Sprintf("%s left the vault in search of adventure... and loot.", d.Name),
	})
	return e
}

// ElapsedMinutes since departure, frozen once the return leg starts.
func (e *Expedition) ElapsedMinutes(now time.Time) int {
	end := now
	if e.ReturnStart != nil {
		end = *e.ReturnStart
	}
	m := int(end.Sub(e.StartTime).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// EffectiveMaxHP after radiation.
func (e *Expedition) EffectiveMaxHP() float64 {
	return max(0, e.MaxHP-e.Radiation)
}

// Alive reports whether the explorer still stands.
func (e *Expedition) Alive() bool { return e.CurrentHP > 0 }

// InventoryFull reports whether the item cap was hit.
func (e *Expedition) InventoryFull() bool { return e.Items >= MaxItems }

// StartReturn flips an exploring trip onto the return leg.
func (e *Expedition) StartReturn(now time.Time) {
	if e.Status != StatusExploring {
		return
	}
	t := now
	e.ReturnStart = &t
	e.Status = StatusReturning
}

// ExpectedReturnMinutes is half the outbound time, divided by the pet speed
// bonus.
func (e *Expedition) ExpectedReturnMinutes(now time.Time) float64 {
	return float64(e.ElapsedMinutes(now)) * 0.5 / e.ReturnSpeed
}

// ReturnProgress in [0,1]; only meaningful while returning.
func (e *Expedition) ReturnProgress(now time.Time) float64 {
	if e.Status != StatusReturning || e.ReturnStart == nil {
		return 0
	}
	expected := e.ExpectedReturnMinutes(now)
	if expected <= 0 {
		return 1
	}
	progress := now.Sub(*e.ReturnStart).Minutes() / expected
	return max(0, min(1, progress))
}

// Complete marks the explorer as waiting at the vault door.
func (e *Expedition) Complete() { e.Status = StatusCompleted }

// TakeDamage runs the survival pipeline: damage, death check, then
// auto-stimpak. The ordering is fixed; the explorer has no other defense.
func (e *Expedition) TakeDamage(amount float64, minute int) {
	if amount <= 0 {
		return
	}
	e.CurrentHP = max(0, e.CurrentHP-amount)
	if e.CurrentHP <= 0 {
		e.MarkDead(minute)
		return
	}
	e.tryAutoStimpak(minute)
}

// TakeRadiation runs the radiation pipeline: no-op under immunity, else
// accumulate, clamp HP under the new effective cap, auto-radaway, then
// death check (radiation alone can zero the effective cap).
func (e *Expedition) TakeRadiation(amount float64, minute int) {
	if e.RadImmune || amount <= 0 {
		return
	}
	e.Radiation = min(e.Radiation+amount, e.MaxHP)
	if e.CurrentHP > e.EffectiveMaxHP() {
		e.CurrentHP = e.EffectiveMaxHP()
	}
	e.tryAutoRadaway(minute)
	if e.EffectiveMaxHP() <= 0 || e.CurrentHP <= 0 {
		e.MarkDead(minute)
	}
}

func (e *Expedition) tryAutoStimpak(minute int) {
	effMax := e.EffectiveMaxHP()
	if e.Stimpaks <= 0 || effMax <= 0 || e.CurrentHP/effMax >= StimpakThreshold {
		return
	}
	e.Stimpaks--
	e.CurrentHP = min(e.CurrentHP+effMax*StimpakHealFraction, effMax)
	e.log(Event{
		Type:        EventStimpakUsed,
		Minute:      minute,
		Description: fmt.Sprintf("%s used a Stimpak. HP restored.", e.DwellerName),
	})
}

func (e *Expedition) tryAutoRadaway(minute int) {
	if e.Radaway <= 0 || e.MaxHP <= 0 || e.Radiation/e.MaxHP <= RadawayThreshold {
		return
	}
	e.Radaway--
	e.Radiation = max(0, e.Radiation-e.MaxHP*RadawayRemoveFraction)
	e.log(Event{
		Type:        EventRadawayUsed,
		Minute:      minute,
		Description: fmt.Sprintf("%s used RadAway. Radiation reduced.", e.DwellerName),
	})
}

// MarkDead is terminal: the status flips once and a death event is logged.
func (e *Expedition) MarkDead(minute int) {
	if e.Status == StatusDead {
		return
	}
	e.Status = StatusDead
	e.CurrentHP = 0
	e.log(Event{
		Type:        EventDeath,
		Minute:      minute,
		Description: fmt.Sprintf("%s has died in the wasteland.", e.DwellerName),
	})
}

// AddCaps banks found caps.
func (e *Expedition) AddCaps(amount int) {
	if amount > 0 {
		e.Caps += amount
	}
}

// AddItem increments the carried item count up to the cap.
func (e *Expedition) AddItem() {
	if e.Items < MaxItems {
		e.Items++
	}
}

// AddXP banks XP and records a level-up event when a threshold is crossed.
// The HP gain is applied to the dweller on collection, not in the field.
func (e *Expedition) AddXP(amount int, minute int) {
	if amount <= 0 {
		return
	}
	e.DwellerXP += amount
	for e.DwellerLevel < dweller.MaxLevel && e.DwellerXP >= dweller.XPForLevel(e.DwellerLevel+1) {
		e.DwellerLevel++
		e.log(Event{
			Type:        EventLevelUp,
			Minute:      minute,
			Description: fmt.Sprintf("%s leveled up to level %d!", e.DwellerName, e.DwellerLevel),
			XPGained:    amount,
		})
	}
}

func (e *Expedition) log(ev Event) {
	ev.ID = uuid.New()
	e.Events = append(e.Events, ev)
}

// RecentEvents returns the newest n log entries for display. Storage keeps
// the full log.
func (e *Expedition) RecentEvents(n int) []Event {
	if n >= len(e.Events) {
		return e.Events
	}
	return e.Events[len(e.Events)-n:]
}
