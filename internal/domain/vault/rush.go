package vault

import "math/rand/v2"

// RushAttempt is a player-triggered attempt to force a production cycle.
type RushAttempt struct {
	Crew            Crew
	RecentRushCount int
}

// FailurePercent in [0,100].
//
//	fail = 40 - 2*(avgLuck + avgTotalSpecial/7) + 10*recentRushes
//
// An uncrewed room always fails.
func (a RushAttempt) FailurePercent() float64 {
	if len(a.Crew) == 0 {
		return 100
	}
	var luckSum, totalSum float64
	for i := range a.Crew {
		luckSum += float64(a.Crew[i].Stats.Luck)
		totalSum += float64(a.Crew[i].Stats.Total())
	}
	n := float64(len(a.Crew))
	avgLuck := luckSum / n
	avgTotal := totalSum / n
	fail := 40.0 - 2.0*(avgLuck+avgTotal/7.0) + 10.0*float64(a.RecentRushCount)
	return max(0, min(100, fail))
}

// RushOutcome of a resolved attempt.
type RushOutcome struct {
	Success    bool
	CapsReward int
	XPReward   int
}

// Resolve rolls the attempt. Success pays caps and XP; the caller spawns an
// incident on failure.
func (a RushAttempt) Resolve() RushOutcome {
	if rand.Float64()*100 < a.FailurePercent() {
		return RushOutcome{}
	}
	return RushOutcome{
		Success:    true,
		CapsReward: 20 + rand.IntN(81),
		XPReward:   (5 + rand.IntN(11)) * len(a.Crew),
	}
}
