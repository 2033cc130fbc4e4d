package expedition

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"vaultown/internal/domain/dweller"
)

func testExplorer(hp, maxHP float64) Expedition {
	return Expedition{
		ID:           uuid.New(),
		VaultID:      uuid.New(),
		DwellerID:    uuid.New(),
		DwellerName:  "Nora",
		Status:       StatusExploring,
		StartTime:    time.Unix(1700000000, 0).UTC(),
		CurrentHP:    hp,
		MaxHP:        maxHP,
		DwellerLevel: 1,
		ReturnSpeed:  1,
	}
}

func TestLaunch_SnapshotsDweller(t *testing.T) {
	d := dweller.New(uuid.New(), "Nate", dweller.GenderMale, dweller.RarityCommon)
	d.VaultID = uuid.New()
	d.Stats = dweller.NewScores(5, 5, 10, 5, 5, 5, 7)
	// Outfit bonuses can push endurance past the base cap.
	d.Stats.Endurance = dweller.RadiationImmunityEndurance
	d.CurrentHP = 80
	d.MaxHP = 110

	now := time.Unix(1700000000, 0).UTC()
	e := Launch(&d, 999, 3, 2, now)

	if e.Stimpaks != MaxStimpaks {
		t.Fatalf("stimpaks should cap at %d, got %d", MaxStimpaks, e.Stimpaks)
	}
	if e.Radaway != 3 {
		t.Fatalf("radaway mismatch: got=%d want=3", e.Radaway)
	}
	if !e.RadImmune {
		t.Fatalf("endurance 11 should grant radiation immunity")
	}
	if e.CurrentHP != 80 || e.MaxHP != 110 {
		t.Fatalf("vitals snapshot mismatch: hp=%v max=%v", e.CurrentHP, e.MaxHP)
	}
	if e.Luck != 7 {
		t.Fatalf("luck snapshot mismatch: got=%d want=7", e.Luck)
	}
	if len(e.Events) != 1 || e.Events[0].Minute != 0 {
		t.Fatalf("expected a single departure event, got %+v", e.Events)
	}
}

func TestTakeDamage_AutoStimpakBelowHalf(t *testing.T) {
	e := testExplorer(60, 100)
	e.Stimpaks = 1

	e.TakeDamage(15, 30)

	if e.Stimpaks != 0 {
		t.Fatalf("stimpak should be spent")
	}
	// 60-15=45 under the 50 threshold, then +45 heal.
	if e.CurrentHP != 90 {
		t.Fatalf("hp mismatch: got=%v want=90", e.CurrentHP)
	}
	found := false
	for _, ev := range e.Events {
		if ev.Type == EventStimpakUsed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a stimpak event in the log")
	}
}

func TestTakeDamage_DeathBeforeStimpak(t *testing.T) {
	e := testExplorer(10, 100)
	e.Stimpaks = 5

	e.TakeDamage(15, 30)

	if e.Status != StatusDead {
		t.Fatalf("expected dead status, got %s", e.Status)
	}
	if e.Stimpaks != 5 {
		t.Fatalf("stimpaks should not fire on a dead explorer")
	}
	if e.CurrentHP != 0 {
		t.Fatalf("hp mismatch: got=%v want=0", e.CurrentHP)
	}
}

func TestTakeRadiation_ImmunityIsANoop(t *testing.T) {
	e := testExplorer(100, 100)
	e.RadImmune = true

	e.TakeRadiation(50, 10)

	if e.Radiation != 0 {
		t.Fatalf("immune explorer accumulated rads: %v", e.Radiation)
	}
}

func TestTakeRadiation_ClampsHPAndAutoRadaway(t *testing.T) {
	e := testExplorer(100, 100)
	e.Radiation = 45
	e.Radaway = 1

	e.TakeRadiation(10, 10)

	// 55 rads trip the radaway, removing 27.5.
	if e.Radaway != 0 {
		t.Fatalf("radaway should be spent")
	}
	if e.Radiation != 27.5 {
		t.Fatalf("radiation mismatch: got=%v want=27.5", e.Radiation)
	}
	// HP was clamped to the 45 effective cap before the purge.
	if e.CurrentHP != 45 {
		t.Fatalf("hp mismatch: got=%v want=45", e.CurrentHP)
	}
	if !e.Alive() {
		t.Fatalf("explorer should survive")
	}
}

func TestTakeRadiation_CanKill(t *testing.T) {
	e := testExplorer(100, 100)
	e.Radiation = 95

	e.TakeRadiation(10, 10)

	if e.Status != StatusDead {
		t.Fatalf("maxed radiation should kill, got %s", e.Status)
	}
}

func TestMarkDead_IsTerminal(t *testing.T) {
	e := testExplorer(50, 100)

	e.MarkDead(10)
	e.MarkDead(20)

	deaths := 0
	for _, ev := range e.Events {
		if ev.Type == EventDeath {
			deaths++
		}
	}
	if deaths != 1 {
		t.Fatalf("expected a single death event, got %d", deaths)
	}
	if e.Status != StatusDead {
		t.Fatalf("status mismatch: got=%s", e.Status)
	}
}

func TestReturnProgress(t *testing.T) {
	e := testExplorer(100, 100)
	departed := e.StartTime

	e.StartReturn(departed.Add(60 * time.Minute))

	if e.Status != StatusReturning {
		t.Fatalf("expected returning status, got %s", e.Status)
	}
	// The return leg takes half the outbound hour.
	if got := e.ExpectedReturnMinutes(departed.Add(2 * time.Hour)); got != 30 {
		t.Fatalf("expected return minutes mismatch: got=%v want=30", got)
	}
	if got := e.ReturnProgress(departed.Add(75 * time.Minute)); got != 0.5 {
		t.Fatalf("halfway progress mismatch: got=%v want=0.5", got)
	}
	if got := e.ReturnProgress(departed.Add(90 * time.Minute)); got != 1 {
		t.Fatalf("arrival progress mismatch: got=%v want=1", got)
	}
	if got := e.ReturnProgress(departed.Add(5 * time.Hour)); got != 1 {
		t.Fatalf("progress should clamp at 1, got %v", got)
	}
}

func TestElapsedMinutes_FrozenByReturn(t *testing.T) {
	e := testExplorer(100, 100)
	departed := e.StartTime

	e.StartReturn(departed.Add(45 * time.Minute))

	if got := e.ElapsedMinutes(departed.Add(6 * time.Hour)); got != 45 {
		t.Fatalf("elapsed should freeze at the turnaround: got=%d want=45", got)
	}
}

func TestStartReturn_OnlyFromExploring(t *testing.T) {
	e := testExplorer(100, 100)
	e.Status = StatusCompleted

	e.StartReturn(e.StartTime.Add(time.Hour))

	if e.Status != StatusCompleted || e.ReturnStart != nil {
		t.Fatalf("completed trip should not flip to returning: %s", e.Status)
	}
}

func TestAddXP_RecordsLevelUps(t *testing.T) {
	e := testExplorer(100, 100)

	e.AddXP(400, 50)

	if e.DwellerLevel != 3 {
		t.Fatalf("level mismatch: got=%d want=3", e.DwellerLevel)
	}
	ups := 0
	for _, ev := range e.Events {
		if ev.Type == EventLevelUp {
			ups++
		}
	}
	if ups != 2 {
		t.Fatalf("expected 2 level-up events, got %d", ups)
	}
}

func TestRecentEvents(t *testing.T) {
	e := testExplorer(100, 100)
	for i := 0; i < 5; i++ {
		e.log(Event{Type: EventCapsFound, Minute: i})
	}

	recent := e.RecentEvents(2)
	if len(recent) != 2 || recent[1].Minute != 4 {
		t.Fatalf("recent events mismatch: %+v", recent)
	}
	if got := e.RecentEvents(100); len(got) != 5 {
		t.Fatalf("oversized window should return the full log, got %d", len(got))
	}
}
