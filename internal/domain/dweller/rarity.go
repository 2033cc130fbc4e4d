package dweller

import "math/rand/v2"

// Rarity determines the total base stat budget a dweller rolls with.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// StatBudget is the target total of all seven base stats for a rarity.
func (r Rarity) StatBudget() int {
	switch r {
	case RarityRare:
		return 28
	case RarityLegendary:
		return 40
	default:
		return 12
	}
}

// ParseRarity fails soft on unknown stored values.
func ParseRarity(s string) (Rarity, bool) {
	switch Rarity(s) {
	case RarityCommon, RarityRare, RarityLegendary:
		return Rarity(s), true
	}
	return "", false
}

// RandomScores distributes the rarity's budget across the seven stats,
// then shifts a few points around for variance.
func RandomScores(r Rarity) Scores {
	budget := r.StatBudget()
	per := budget / len(AllStats)
	remainder := budget % len(AllStats)

	vals := make([]int, len(AllStats))
	for i := range vals {
		vals[i] = per
	}
	for remainder > 0 {
		i := rand.IntN(len(vals))
		if vals[i] < StatMaxBase {
			vals[i]++
			remainder--
		}
	}
	for range 3 {
		from, to := rand.IntN(len(vals)), rand.IntN(len(vals))
		if from != to && vals[from] > StatMin && vals[to] < StatMaxBase {
			vals[from]--
			vals[to]++
		}
	}
	return NewScores(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6])
}
