package dweller

// Stat is one of the seven S.P.E.C.I.A.L. attributes.
type Stat string

const (
	Strength     Stat = "strength"
	Perception   Stat = "perception"
	Endurance    Stat = "endurance"
	Charisma     Stat = "charisma"
	Intelligence Stat = "intelligence"
	Agility      Stat = "agility"
	Luck         Stat = "luck"
)

const (
	// StatMin is the lowest a base stat can go.
	StatMin = 1
	// StatMaxBase is the cap for base stats, before equipment bonuses.
	StatMaxBase = 10
	// StatMaxEffective is the cap with equipment bonuses applied.
	StatMaxEffective = 17
	// RadiationImmunityEndurance grants wasteland radiation immunity.
	RadiationImmunityEndurance = 11
)

// AllStats in canonical S.P.E.C.I.A.L. order.
var AllStats = []Stat{Strength, Perception, Endurance, Charisma, Intelligence, Agility, Luck}

// ParseStat validates a stored stat name. ok is false for unknown values so
// callers can skip-and-log instead of failing the batch.
func ParseStat(s string) (Stat, bool) {
	switch Stat(s) {
	case Strength, Perception, Endurance, Charisma, Intelligence, Agility, Luck:
		return Stat(s), true
	}
	return "", false
}

func clampBase(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMaxBase {
		return StatMaxBase
	}
	return v
}

// Scores holds the seven base stat values (1-10 each).
type Scores struct {
	Strength     int `json:"strength"`
	Perception   int `json:"perception"`
	Endurance    int `json:"endurance"`
	Charisma     int `json:"charisma"`
	Intelligence int `json:"intelligence"`
	Agility      int `json:"agility"`
	Luck         int `json:"luck"`
}

// NewScores clamps every value into the valid base range.
func NewScores(s, p, e, c, i, a, l int) Scores {
	return Scores{
		Strength:     clampBase(s),
		Perception:   clampBase(p),
		Endurance:    clampBase(e),
		Charisma:     clampBase(c),
		Intelligence: clampBase(i),
		Agility:      clampBase(a),
		Luck:         clampBase(l),
	}
}

func (sc Scores) Get(stat Stat) int {
	switch stat {
	case Strength:
		return sc.Strength
	case Perception:
		return sc.Perception
	case Endurance:
		return sc.Endurance
	case Charisma:
		return sc.Charisma
	case Intelligence:
		return sc.Intelligence
	case Agility:
		return sc.Agility
	case Luck:
		return sc.Luck
	}
	return 0
}

func (sc *Scores) Set(stat Stat, v int) {
	v = clampBase(v)
	switch stat {
	case Strength:
		sc.Strength = v
	case Perception:
		sc.Perception = v
	case Endurance:
		sc.Endurance = v
	case Charisma:
		sc.Charisma = v
	case Intelligence:
		sc.Intelligence = v
	case Agility:
		sc.Agility = v
	case Luck:
		sc.Luck = v
	}
}

// Train raises a stat by one point. Returns false at the base cap.
func (sc *Scores) Train(stat Stat) bool {
	current := sc.Get(stat)
	if current >= StatMaxBase {
		return false
	}
	sc.Set(stat, current+1)
	return true
}

// Total of all seven base stats.
func (sc Scores) Total() int {
	return sc.Strength + sc.Perception + sc.Endurance + sc.Charisma +
		sc.Intelligence + sc.Agility + sc.Luck
}
