package incident

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// LogEntryType tags combat log lines.
type LogEntryType string

const (
	LogDwellerAttack    LogEntryType = "dweller_attack"
	LogIncidentAttack   LogEntryType = "incident_attack"
	LogDwellerDeath     LogEntryType = "dweller_death"
	LogIncidentDefeated LogEntryType = "incident_defeated"
	LogIncidentSpread   LogEntryType = "incident_spread"
	LogCapsStolen       LogEntryType = "caps_stolen"
)

// LogEntry is one append-only combat log line.
type LogEntry struct {
	Timestamp   time.Time    `json:"timestamp"`
	Type        LogEntryType `json:"type"`
	Actor       string       `json:"actor"`
	Damage      int          `json:"damage,omitempty"`
	Rads        int          `json:"rads,omitempty"`
	Description string       `json:"description"`
}

// Incident is an active threat in a vault room. It is never deleted; defeat
// flips IsActive exactly once and the history stays queryable.
type Incident struct {
	ID            uuid.UUID
	VaultID       uuid.UUID
	RoomID        uuid.UUID
	Type          Type
	StartTime     time.Time
	CurrentHP     int
	MaxHP         int
	IsActive      bool
	CapsStolen    int
	SpreadRoomIDs []uuid.UUID
	CombatLog     []LogEntry
	Version       int64
}

// ScaleHP computes spawn HP from the room and the vault's average dweller
// level:
//
//	baseHP * enemyCount * (1+0.25*(level-1)) * width * (1+0.02*(avgLevel-1))
func ScaleHP(t Type, roomLevel, roomWidth, avgDwellerLevel int) int {
	if roomLevel < 1 {
		roomLevel = 1
	}
	if roomWidth < 1 {
		roomWidth = 1
	}
	if avgDwellerLevel < 1 {
		avgDwellerLevel = 1
	}
	hp := float64(t.BaseHP()) * float64(t.EnemyCount()) *
		(1 + 0.25*float64(roomLevel-1)) *
		float64(roomWidth) *
		(1 + 0.02*float64(avgDwellerLevel-1))
	return int(hp)
}

// New spawns an incident scaled to the room it lands in.
func New(vaultID, roomID uuid.UUID, t Type, roomLevel, roomWidth, avgDwellerLevel int, now time.Time) Incident {
	hp := ScaleHP(t, roomLevel, roomWidth, avgDwellerLevel)
	return Incident{
		ID:        uuid.New(),
		VaultID:   vaultID,
		RoomID:    roomID,
		Type:      t,
		StartTime: now,
		CurrentHP: hp,
		MaxHP:     hp,
		IsActive:  true,
	}
}

// DwellerDamage rolls one dweller hit. S.P.E.C.I.A.L. deliberately has no
// effect here; only the equipped weapon range and pet bonus count.
func DwellerDamage(weaponMin, weaponMax, petBonus int) int {
	if weaponMax < weaponMin {
		weaponMax = weaponMin
	}
	return weaponMin + rand.IntN(weaponMax-weaponMin+1) + petBonus
}

// TakeDamage applies a dweller hit, clamped at zero HP. Defeat is terminal:
// further damage on an inactive incident is ignored.
func (i *Incident) TakeDamage(damage int, attacker string, now time.Time) {
	if !i.IsActive || damage <= 0 {
		return
	}
	actual := min(damage, i.CurrentHP)
	i.CurrentHP -= actual
	i.CombatLog = append(i.CombatLog, LogEntry{
		Timestamp:   now,
		Type:        LogDwellerAttack,
		Actor:       attacker,
		Damage:      actual,
		Description: fmt.Sprintf("%s dealt %d damage", attacker, actual),
	})
	if i.CurrentHP <= 0 {
		i.IsActive = false
		i.CombatLog = append(i.CombatLog, LogEntry{
			Timestamp:   now,
			Type:        LogIncidentDefeated,
			Actor:       i.Type.Name(),
			Description: "Incident defeated!",
		})
	}
}

// Retaliation is one incident counter-attack against a defender.
type Retaliation struct {
	Damage int
	Rads   int
}

// Retaliate rolls the incident's counter-attack and logs it. The caller
// applies the result to the dweller and persists immediately.
func (i *Incident) Retaliate(defender string, now time.Time) Retaliation {
	r := Retaliation{Damage: i.Type.RollDamage()}
	if i.Type.DealsRadiation() {
		r.Rads = i.Type.RadiationPerHit()
	}
	desc := fmt.Sprintf("%s attacked %s for %d damage", i.Type.Name(), defender, r.Damage)
	if r.Rads > 0 {
		desc += fmt.Sprintf(" (+%d rads)", r.Rads)
	}
	i.CombatLog = append(i.CombatLog, LogEntry{
		Timestamp:   now,
		Type:        LogIncidentAttack,
		Actor:       i.Type.Name(),
		Damage:      r.Damage,
		Rads:        r.Rads,
		Description: desc,
	})
	return r
}

// LogDefenderDeath records a defender falling mid-fight.
func (i *Incident) LogDefenderDeath(name string, now time.Time) {
	i.CombatLog = append(i.CombatLog, LogEntry{
		Timestamp:   now,
		Type:        LogDwellerDeath,
		Actor:       name,
		Description: name + " was killed!",
	})
}

// StealCaps takes caps at the type's rate over deltaSeconds, capped by what
// the vault holds. Returns the amount actually stolen.
func (i *Incident) StealCaps(available int, deltaSeconds float64, now time.Time) int {
	if !i.Type.StealsCaps() || available <= 0 || deltaSeconds <= 0 {
		return 0
	}
	stolen := min(available, int(float64(i.Type.CapsStealRate())*deltaSeconds))
	if stolen <= 0 {
		return 0
	}
	i.CapsStolen += stolen
	i.CombatLog = append(i.CombatLog, LogEntry{
		Timestamp:   now,
		Type:        LogCapsStolen,
		Actor:       i.Type.Name(),
		Description: fmt.Sprintf("Raiders grabbed %d caps", stolen),
	})
	return stolen
}

// HasSpreadTo reports whether a room is already infected.
func (i *Incident) HasSpreadTo(roomID uuid.UUID) bool {
	if roomID == i.RoomID {
		return true
	}
	for _, id := range i.SpreadRoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}

// SpreadTo infects another room and grows the threat by half its base HP.
func (i *Incident) SpreadTo(roomID uuid.UUID, now time.Time) {
	if i.HasSpreadTo(roomID) {
		return
	}
	i.SpreadRoomIDs = append(i.SpreadRoomIDs, roomID)
	i.CurrentHP += i.Type.BaseHP() / 2
	if i.CurrentHP > i.MaxHP {
		i.MaxHP = i.CurrentHP
	}
	i.CombatLog = append(i.CombatLog, LogEntry{
		Timestamp:   now,
		Type:        LogIncidentSpread,
		Actor:       i.Type.Name(),
		Description: i.Type.Name() + " spread to an adjacent room",
	})
}

// XPPerDefender splits the type's reward across the defenders who fought.
func (i *Incident) XPPerDefender(defenderCount int) int {
	return i.Type.XPReward() / max(1, defenderCount)
}
