package expedition

import (
	"testing"
)

func TestRandomEnemy_TimeGatedPools(t *testing.T) {
	early := map[string]bool{"Radroach": true, "Bloatfly": true, "Mole Rat": true}
	for range 50 {
		enemy := RandomEnemy(30)
		if !early[enemy.Name] {
			t.Fatalf("first-hour pool produced %s", enemy.Name)
		}
	}

	mid := map[string]bool{"Feral Ghoul": true, "Raider": true, "Radscorpion": true, "Super Mutant": true}
	for range 50 {
		enemy := RandomEnemy(200)
		if !mid[enemy.Name] {
			t.Fatalf("mid-trip pool produced %s", enemy.Name)
		}
	}
}

func TestGenerateForcedEvent_LootAddsItem(t *testing.T) {
	e := testExplorer(100, 100)

	ev, ok := GenerateForcedEvent(&e, EventLootDiscovery, 60)

	if !ok {
		t.Fatalf("expected an event")
	}
	if ev.Type != EventLootDiscovery {
		t.Fatalf("event type mismatch: got=%s", ev.Type)
	}
	if ev.ItemFound == "" {
		t.Fatalf("loot event should name the item")
	}
	if e.Items != 1 {
		t.Fatalf("item count mismatch: got=%d want=1", e.Items)
	}
}

func TestGenerateForcedEvent_FullInventoryFallsBackToCaps(t *testing.T) {
	e := testExplorer(100, 100)
	e.Items = MaxItems

	ev, ok := GenerateForcedEvent(&e, EventLootDiscovery, 60)

	if !ok {
		t.Fatalf("expected an event")
	}
	if ev.Type != EventCapsFound {
		t.Fatalf("expected a caps fallback, got %s", ev.Type)
	}
	if e.Caps <= 0 {
		t.Fatalf("caps should be credited, got %d", e.Caps)
	}
	if e.Items != MaxItems {
		t.Fatalf("item count should not grow past the cap")
	}
}

func TestGenerateEvent_OnlyWhileExploring(t *testing.T) {
	for _, status := range []Status{StatusReturning, StatusCompleted, StatusDead} {
		e := testExplorer(100, 100)
		e.Status = status
		if _, ok := GenerateEvent(&e, 30); ok {
			t.Fatalf("%s trip generated an event", status)
		}
	}
}

func TestCombatEvent_BanksRewards(t *testing.T) {
	e := testExplorer(100, 100)
	e.RadImmune = true

	ev := combatEvent(&e, 30)

	if ev.Enemy == "" || ev.Damage <= 0 {
		t.Fatalf("combat event missing enemy or damage: %+v", ev)
	}
	if ev.CapsGained < 5 || ev.CapsGained > 25 {
		t.Fatalf("combat caps out of range: %d", ev.CapsGained)
	}
	if e.Caps != ev.CapsGained {
		t.Fatalf("caps not banked: got=%d want=%d", e.Caps, ev.CapsGained)
	}
	if e.DwellerXP != ev.XPGained {
		t.Fatalf("xp not banked: got=%d want=%d", e.DwellerXP, ev.XPGained)
	}
	if e.CurrentHP >= 100 {
		t.Fatalf("damage not applied: hp=%v", e.CurrentHP)
	}
}

func TestRadiationEvent_RespectsImmunity(t *testing.T) {
	e := testExplorer(100, 100)
	e.RadImmune = true

	ev := radiationEvent(&e, 30)

	if ev.Rads != 0 || e.Radiation != 0 {
		t.Fatalf("immune explorer took rads: ev=%+v rads=%v", ev, e.Radiation)
	}
}

func TestParseEventType(t *testing.T) {
	if _, ok := ParseEventType("combat"); !ok {
		t.Fatalf("combat should parse")
	}
	if _, ok := ParseEventType("tea_party"); ok {
		t.Fatalf("unknown event type should not parse")
	}
}
