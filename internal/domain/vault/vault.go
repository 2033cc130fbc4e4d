package vault

import (
	"time"

	"github.com/google/uuid"
)

// Resource kinds stored in a vault's buffers.
type Resource string

const (
	ResourcePower Resource = "power"
	ResourceFood  Resource = "food"
	ResourceWater Resource = "water"
	ResourceCaps  Resource = "caps"
)

const (
	// MaxCaps a vault can hold.
	MaxCaps = 1_000_000

	// ConsumptionPerDwellerPerMinute is the food and water drain rate.
	ConsumptionPerDwellerPerMinute = 0.36
	// StarvationHPPerMinute is dealt to every dweller while food is out.
	StarvationHPPerMinute = 1.0
	// DehydrationRadsPerMinute accrue on every dweller while water is out.
	DehydrationRadsPerMinute = 0.5
)

// Vault is the per-player colony root. All three schedulers mutate it.
type Vault struct {
	ID            uuid.UUID
	Number        int64
	Name          string
	Power         float64
	MaxPower      float64
	Food          float64
	MaxFood       float64
	Water         float64
	MaxWater      float64
	Caps          int
	Stimpaks      int
	Radaway       int
	PopulationCap int
	LastUpdate    time.Time
	Version       int64
}

// NewVault creates a vault with the standard starting stockpile.
func NewVault(number int64, name string, now time.Time) Vault {
	return Vault{
		ID:            uuid.New(),
		Number:        number,
		Name:          name,
		Power:         50,
		MaxPower:      100,
		Food:          50,
		MaxFood:       100,
		Water:         50,
		MaxWater:      100,
		Caps:          500,
		Stimpaks:      2,
		Radaway:       2,
		PopulationCap: 10,
		LastUpdate:    now,
	}
}

// Add credits a resource, clamped at the buffer maximum.
func (v *Vault) Add(r Resource, amount float64) {
	if amount <= 0 {
		return
	}
	switch r {
	case ResourcePower:
		v.Power = min(v.Power+amount, v.MaxPower)
	case ResourceFood:
		v.Food = min(v.Food+amount, v.MaxFood)
	case ResourceWater:
		v.Water = min(v.Water+amount, v.MaxWater)
	case ResourceCaps:
		v.Caps = min(v.Caps+int(amount), MaxCaps)
	}
}

// AddCaps credits caps, clamped at MaxCaps.
func (v *Vault) AddCaps(amount int) {
	if amount <= 0 {
		return
	}
	v.Caps = min(v.Caps+amount, MaxCaps)
}

// SpendCaps deducts if affordable.
func (v *Vault) SpendCaps(amount int) bool {
	if amount < 0 || v.Caps < amount {
		return false
	}
	v.Caps -= amount
	return true
}
