package dweller

import (
	"time"

	"github.com/google/uuid"
)

// Gender of a dweller.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), true
	}
	return "", false
}

const (
	// MaxLevel a dweller can reach.
	MaxLevel = 50
	// BaseStartingHP for every freshly created dweller.
	BaseStartingHP = 105.0
	// MaxRadiation a dweller can accumulate from starvation effects.
	MaxRadiation = 100.0
)

// Dweller is a vault inhabitant. HP and radiation are mutated by the
// resource and incident schedulers; level and XP by expeditions and combat.
type Dweller struct {
	ID             uuid.UUID
	VaultID        uuid.UUID
	Name           string
	Gender         Gender
	Rarity         Rarity
	Stats          Scores
	Level          int
	Experience     int
	CurrentHP      float64
	MaxHP          float64
	Radiation      float64
	Happiness      float64
	AssignedRoomID *uuid.UUID
	Version        int64
	UpdatedAt      time.Time
}

// New rolls a dweller of the given rarity with starting vitals.
func New(vaultID uuid.UUID, name string, gender Gender, rarity Rarity) Dweller {
	return Dweller{
		ID:        uuid.New(),
		VaultID:   vaultID,
		Name:      name,
		Gender:    gender,
		Rarity:    rarity,
		Stats:     RandomScores(rarity),
		Level:     1,
		CurrentHP: BaseStartingHP,
		MaxHP:     BaseStartingHP,
		Happiness: 50,
	}
}

// Alive reports whether the dweller can work, fight, or explore.
func (d *Dweller) Alive() bool {
	return d.CurrentHP > 0
}

// EffectiveMaxHP is max HP reduced by accumulated radiation.
func (d *Dweller) EffectiveMaxHP() float64 {
	if d.Radiation >= d.MaxHP {
		return 0
	}
	return d.MaxHP - d.Radiation
}

// HPPerLevel is the HP gained on level-up given the dweller's endurance at
// that moment.
func HPPerLevel(endurance int) float64 {
	return 2.5 + float64(endurance)*0.5
}

// XPForLevel is the cumulative XP needed to reach a level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return n * n * 100
}

// AddExperience banks XP and applies every level-up it pays for.
// Returns the number of levels gained.
func (d *Dweller) AddExperience(amount int) int {
	if amount <= 0 {
		return 0
	}
	d.Experience += amount
	levels := 0
	for d.Level < MaxLevel && d.Experience >= XPForLevel(d.Level+1) {
		d.Level++
		gain := HPPerLevel(d.Stats.Endurance)
		d.MaxHP += gain
		d.CurrentHP = min(d.CurrentHP+gain, d.EffectiveMaxHP())
		levels++
	}
	return levels
}

// TakeDamage reduces HP, clamped at zero. A dweller at zero HP is down
// until revived.
func (d *Dweller) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}
	d.CurrentHP = max(0, d.CurrentHP-amount)
}

// AddRadiation accumulates rads and pushes current HP under the new
// effective cap.
func (d *Dweller) AddRadiation(amount float64) {
	if amount <= 0 {
		return
	}
	d.Radiation = min(d.Radiation+amount, MaxRadiation)
	if d.CurrentHP > d.EffectiveMaxHP() {
		d.CurrentHP = d.EffectiveMaxHP()
	}
}

// Heal restores a flat amount up to the effective cap.
func (d *Dweller) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	d.CurrentHP = min(d.CurrentHP+amount, d.EffectiveMaxHP())
}

// RevivalCost in caps scales with level.
func (d *Dweller) RevivalCost() int {
	return 100 + (d.Level-1)*20
}

// Revive restores a downed dweller to full effective HP.
func (d *Dweller) Revive() bool {
	if d.Alive() {
		return false
	}
	d.CurrentHP = d.EffectiveMaxHP()
	return true
}

// AdjustHappiness shifts happiness within [0,100].
func (d *Dweller) AdjustHappiness(delta float64) {
	d.Happiness = max(0, min(100, d.Happiness+delta))
}
