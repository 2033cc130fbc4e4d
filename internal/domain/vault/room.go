package vault

import (
	"time"

	"github.com/google/uuid"
)

// ProductionState of a room.
type ProductionState string

const (
	StateIdle      ProductionState = "idle"
	StateProducing ProductionState = "producing"
	StateReady     ProductionState = "ready"
)

func ParseProductionState(s string) (ProductionState, bool) {
	switch ProductionState(s) {
	case StateIdle, StateProducing, StateReady:
		return ProductionState(s), true
	}
	return "", false
}

const (
	// RoomMinLevel and RoomMaxLevel bound upgrades.
	RoomMinLevel = 1
	RoomMaxLevel = 3
	// RoomMaxWidth after merging.
	RoomMaxWidth = 3

	// BaseCycleSeconds is the unmodified production cycle length.
	BaseCycleSeconds = 60.0
)

// upgradeCostMultiplier relative to base build cost, per target level.
var upgradeCostMultiplier = map[int]float64{2: 2.5, 3: 7.5}

// widthUpgradeDiscount applied to upgrade cost for merged rooms.
var widthUpgradeDiscount = map[int]float64{1: 1.0, 2: 0.75, 3: 0.66}

// widthBuildCostMultiplier applied to build cost when merging.
var widthBuildCostMultiplier = map[int]float64{1: 1.0, 2: 1.75, 3: 2.0}

// baseProductionPerCycle keyed by room level.
var baseProductionPerCycle = map[int]float64{1: 10, 2: 12, 3: 15}

// Room is one grid cell span in a vault. X is the column, Y the floor
// (0 is the surface level, larger is deeper).
type Room struct {
	ID                   uuid.UUID
	VaultID              uuid.UUID
	Type                 RoomType
	Level                int
	X                    int
	Y                    int
	Width                int
	State                ProductionState
	Progress             float64
	HasPower             bool
	LastProductionUpdate time.Time
	Version              int64
}

// NewRoom places a single-width, level-1 room.
func NewRoom(vaultID uuid.UUID, t RoomType, x, y int, now time.Time) Room {
	return Room{
		ID:                   uuid.New(),
		VaultID:              vaultID,
		Type:                 t,
		Level:                RoomMinLevel,
		X:                    x,
		Y:                    y,
		Width:                1,
		State:                StateIdle,
		HasPower:             true,
		LastProductionUpdate: now,
	}
}

// Capacity of the room at its current width.
func (r *Room) Capacity() int { return r.Type.Capacity(r.Width) }

// PowerConsumption per minute at current size.
func (r *Room) PowerConsumption() int { return r.Type.PowerConsumption(r.Width, r.Level) }

// BuildCost in caps for this room at its width.
func (r *Room) BuildCost() int {
	return int(float64(r.Type.BaseBuildCost()) * widthBuildCostMultiplier[r.Width])
}

// UpgradeCost to the next level; ok is false at max level.
func (r *Room) UpgradeCost() (int, bool) {
	if r.Level >= RoomMaxLevel {
		return 0, false
	}
	base := float64(r.Type.BaseBuildCost()) * upgradeCostMultiplier[r.Level+1]
	return int(base * widthUpgradeDiscount[r.Width]), true
}

// Upgrade raises the level by one.
func (r *Room) Upgrade() bool {
	if r.Level >= RoomMaxLevel {
		return false
	}
	r.Level++
	return true
}

// BaseProductionPerCycle at the room's level, scaled by width.
func (r *Room) BaseProductionPerCycle() float64 {
	return baseProductionPerCycle[r.Level] * float64(r.Width)
}

// CycleTime returns the production cycle length in seconds given the sum of
// the room's primary stat over assigned dwellers and their mean happiness.
//
//	cycle = base / (1 + totalStat/10 + happiness/100*0.1)
func (r *Room) CycleTime(totalStat int, avgHappiness float64) float64 {
	divisor := 1.0 + float64(totalStat)/10.0 + avgHappiness/100.0*0.1
	return BaseCycleSeconds / divisor
}

// OccupiesColumn reports whether the room spans grid column x on its floor.
func (r *Room) OccupiesColumn(x int) bool {
	return x >= r.X && x < r.X+r.Width
}

// Overlaps reports whether two rooms share any grid cell.
func (r *Room) Overlaps(other *Room) bool {
	if r.Y != other.Y {
		return false
	}
	return r.X < other.X+other.Width && other.X < r.X+r.Width
}

// AdjacentTo reports whether the rooms touch on the same floor or share a
// column across one floor (elevator shafts connect floors).
func (r *Room) AdjacentTo(other *Room) bool {
	if r.Y == other.Y {
		return r.X+r.Width == other.X || other.X+other.Width == r.X
	}
	if r.Y == other.Y+1 || r.Y+1 == other.Y {
		return r.X < other.X+other.Width && other.X < r.X+r.Width
	}
	return false
}

// CanMergeWith reports whether other can be absorbed into this room: same
// type and level, horizontally touching, and within the width cap.
func (r *Room) CanMergeWith(other *Room) bool {
	if !r.Type.CanMerge() || r.Type != other.Type || r.Level != other.Level {
		return false
	}
	if r.Y != other.Y || r.Width+other.Width > RoomMaxWidth {
		return false
	}
	return r.X+r.Width == other.X || other.X+other.Width == r.X
}

// Merge absorbs other. The caller deletes the absorbed room.
func (r *Room) Merge(other *Room) bool {
	if !r.CanMergeWith(other) {
		return false
	}
	if other.X < r.X {
		r.X = other.X
	}
	r.Width += other.Width
	return true
}

// ValidatePlacement checks grid invariants for a new room against the
// vault's existing rooms: no overlap, and (once the vault has a few rooms)
// adjacency to something already built.
func ValidatePlacement(candidate *Room, existing []Room) bool {
	adjacent := len(existing) < 3
	for i := range existing {
		if candidate.Overlaps(&existing[i]) {
			return false
		}
		if candidate.AdjacentTo(&existing[i]) {
			adjacent = true
		}
	}
	return adjacent
}

// StartingRooms returns the pre-built layout for a new vault.
func StartingRooms(vaultID uuid.UUID, now time.Time) []Room {
	door := NewRoom(vaultID, RoomVaultDoor, 0, 0, now)
	elevator := NewRoom(vaultID, RoomElevator, 2, 0, now)
	power := NewRoom(vaultID, RoomPowerGenerator, 3, 0, now)
	diner := NewRoom(vaultID, RoomDiner, 3, 1, now)
	water := NewRoom(vaultID, RoomWaterTreatment, 3, 2, now)
	quarters := NewRoom(vaultID, RoomLivingQuarters, 0, 1, now)
	door.Width = 2
	return []Room{door, elevator, power, diner, water, quarters}
}
