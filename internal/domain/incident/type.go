package incident

import "math/rand/v2"

// Type of vault threat.
type Type string

const (
	TypeFire        Type = "fire"
	TypeRadroach    Type = "radroach"
	TypeMoleRat     Type = "mole_rat"
	TypeRaider      Type = "raider"
	TypeFeralGhoul  Type = "feral_ghoul"
	TypeRadscorpion Type = "radscorpion"
	TypeDeathclaw   Type = "deathclaw"
)

// AllTypes ordered mildest to deadliest.
var AllTypes = []Type{
	TypeFire, TypeRadroach, TypeMoleRat, TypeRaider,
	TypeFeralGhoul, TypeRadscorpion, TypeDeathclaw,
}

// ParseType fails soft on unknown stored values.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeFire, TypeRadroach, TypeMoleRat, TypeRaider,
		TypeFeralGhoul, TypeRadscorpion, TypeDeathclaw:
		return Type(s), true
	}
	return "", false
}

type typeDef struct {
	name        string
	minPop      int
	damageMin   int
	damageMax   int
	baseHP      int
	radiation   int // per hit; zero when the type does not radiate
	spreads     bool
	stealsCaps  bool
	stealRate   int // caps per second
	ignoresDoor bool
	enemyCount  int
	xpReward    int
	capsReward  int
	spawnWeight float64
}

var typeDefs = map[Type]typeDef{
	TypeFire:        {name: "Fire", minPop: 2, damageMin: 1, damageMax: 3, baseHP: 50, spreads: true, enemyCount: 1, xpReward: 5, spawnWeight: 5},
	TypeRadroach:    {name: "Radroach Infestation", minPop: 9, damageMin: 2, damageMax: 4, baseHP: 20, spreads: true, enemyCount: 3, xpReward: 10, spawnWeight: 4},
	TypeMoleRat:     {name: "Mole Rat Attack", minPop: 31, damageMin: 2, damageMax: 5, baseHP: 30, spreads: true, enemyCount: 2, xpReward: 15, spawnWeight: 3},
	TypeRaider:      {name: "Raider Attack", minPop: 14, damageMin: 6, damageMax: 15, baseHP: 50, stealsCaps: true, stealRate: 5, enemyCount: 3, xpReward: 25, capsReward: 50, spawnWeight: 2},
	TypeFeralGhoul:  {name: "Feral Ghouls", minPop: 41, damageMin: 4, damageMax: 8, baseHP: 60, radiation: 10, enemyCount: 2, xpReward: 30, spawnWeight: 1.5},
	TypeRadscorpion: {name: "Radscorpions", minPop: 51, damageMin: 8, damageMax: 12, baseHP: 80, radiation: 15, enemyCount: 2, xpReward: 40, spawnWeight: 1},
	TypeDeathclaw:   {name: "Deathclaw Attack", minPop: 61, damageMin: 15, damageMax: 30, baseHP: 150, ignoresDoor: true, enemyCount: 2, xpReward: 100, spawnWeight: 0.5},
}

func (t Type) Name() string          { return typeDefs[t].name }
func (t Type) MinimumPopulation() int { return typeDefs[t].minPop }
func (t Type) BaseHP() int           { return typeDefs[t].baseHP }
func (t Type) DealsRadiation() bool  { return typeDefs[t].radiation > 0 }
func (t Type) RadiationPerHit() int  { return typeDefs[t].radiation }
func (t Type) Spreads() bool         { return typeDefs[t].spreads }
func (t Type) StealsCaps() bool      { return typeDefs[t].stealsCaps }
func (t Type) CapsStealRate() int    { return typeDefs[t].stealRate }
func (t Type) IgnoresVaultDoor() bool { return typeDefs[t].ignoresDoor }
func (t Type) EnemyCount() int       { return typeDefs[t].enemyCount }
func (t Type) XPReward() int         { return typeDefs[t].xpReward }
func (t Type) CapsReward() int       { return typeDefs[t].capsReward }
func (t Type) SpawnWeight() float64  { return typeDefs[t].spawnWeight }

// RollDamage in the type's damage range.
func (t Type) RollDamage() int {
	def := typeDefs[t]
	return def.damageMin + rand.IntN(def.damageMax-def.damageMin+1)
}

// AvailableTypes a vault of the given population can suffer.
func AvailableTypes(population int) []Type {
	out := make([]Type, 0, len(AllTypes))
	for _, t := range AllTypes {
		if t.MinimumPopulation() <= population {
			out = append(out, t)
		}
	}
	return out
}

// RushFailureTypes that a botched rush can trigger. Raiders are excluded by
// the caller unless the rushed room sits next to the vault door.
func RushFailureTypes(population int) []Type {
	switch {
	case population >= 61:
		return AllTypes
	case population >= 51:
		return []Type{TypeFire, TypeRadroach, TypeMoleRat, TypeFeralGhoul, TypeRadscorpion}
	case population >= 41:
		return []Type{TypeFire, TypeRadroach, TypeMoleRat, TypeFeralGhoul}
	case population >= 31:
		return []Type{TypeFire, TypeRadroach, TypeMoleRat}
	case population >= 14:
		return []Type{TypeFire, TypeRadroach, TypeRaider}
	case population >= 9:
		return []Type{TypeFire, TypeRadroach}
	case population >= 2:
		return []Type{TypeFire}
	default:
		return nil
	}
}

// PickWeighted samples one type from candidates by spawn weight, favoring
// milder threats. ok is false for an empty candidate list.
func PickWeighted(candidates []Type) (Type, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	total := 0.0
	for _, t := range candidates {
		total += t.SpawnWeight()
	}
	r := rand.Float64() * total
	for _, t := range candidates {
		r -= t.SpawnWeight()
		if r <= 0 {
			return t, true
		}
	}
	return candidates[len(candidates)-1], true
}
