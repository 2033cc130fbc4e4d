package vault

import (
	"testing"

	"vaultown/internal/domain/dweller"
)

func TestFailurePercent_PerfectCrewNeverFails(t *testing.T) {
	crew := Crew{
		{Stats: dweller.NewScores(10, 10, 10, 10, 10, 10, 10)},
	}
	attempt := RushAttempt{Crew: crew}

	if got := attempt.FailurePercent(); got != 0 {
		t.Fatalf("perfect crew failure mismatch: got=%v want=0", got)
	}
	for range 50 {
		if !attempt.Resolve().Success {
			t.Fatalf("zero failure chance should always succeed")
		}
	}
}

func TestFailurePercent_EmptyCrewAlwaysFails(t *testing.T) {
	attempt := RushAttempt{}

	if got := attempt.FailurePercent(); got != 100 {
		t.Fatalf("empty crew failure mismatch: got=%v want=100", got)
	}
	for range 50 {
		if attempt.Resolve().Success {
			t.Fatalf("certain failure should never succeed")
		}
	}
}

func TestFailurePercent_RepeatRushesRaiseTheOdds(t *testing.T) {
	crew := Crew{
		{Stats: dweller.NewScores(5, 5, 5, 5, 5, 5, 5)},
	}
	base := RushAttempt{Crew: crew}.FailurePercent()
	repeat := RushAttempt{Crew: crew, RecentRushCount: 2}.FailurePercent()

	if repeat != base+20 {
		t.Fatalf("repeat penalty mismatch: base=%v repeat=%v", base, repeat)
	}

	spammed := RushAttempt{Crew: crew, RecentRushCount: 1000}.FailurePercent()
	if spammed != 100 {
		t.Fatalf("failure percent should clamp at 100, got %v", spammed)
	}
}

func TestResolve_SuccessRewardBounds(t *testing.T) {
	crew := Crew{
		{Stats: dweller.NewScores(10, 10, 10, 10, 10, 10, 10)},
		{Stats: dweller.NewScores(10, 10, 10, 10, 10, 10, 10)},
	}
	attempt := RushAttempt{Crew: crew}

	for range 50 {
		outcome := attempt.Resolve()
		if !outcome.Success {
			t.Fatalf("expected success")
		}
		if outcome.CapsReward < 20 || outcome.CapsReward > 100 {
			t.Fatalf("caps reward out of range: %d", outcome.CapsReward)
		}
		if outcome.XPReward < 10 || outcome.XPReward > 30 {
			t.Fatalf("xp reward out of range: %d", outcome.XPReward)
		}
	}
}
