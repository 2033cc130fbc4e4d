package incidentsched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaultown/internal/adapter/repo/memory"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

type recordingNotifier struct {
	mu      sync.Mutex
	spawned []incident.Incident
}

func (n *recordingNotifier) NotifyIncidentSpawned(_ uuid.UUID, in incident.Incident) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spawned = append(n.spawned, in)
}

func (n *recordingNotifier) NotifyExplorerReturned(uuid.UUID, expedition.Expedition) {}
func (n *recordingNotifier) NotifyExplorerDied(uuid.UUID, expedition.Expedition)    {}

func newTestScheduler(store *memory.Store, notifier *recordingNotifier, now time.Time) *Scheduler {
	s := New(
		memory.NewVaultRepo(store),
		memory.NewRoomRepo(store),
		memory.NewDwellerRepo(store),
		memory.NewIncidentRepo(store),
		notifier,
		zap.NewNop(),
		nil,
	)
	s.Now = func() time.Time { return now }
	return s
}

func seedDefender(store *memory.Store, vaultID, roomID uuid.UUID) dweller.Dweller {
	d := dweller.Dweller{
		ID:        uuid.New(),
		VaultID:   vaultID,
		Name:      "Defender",
		Stats:     dweller.NewScores(5, 5, 5, 5, 5, 5, 5),
		Level:     1,
		CurrentHP: 105,
		MaxHP:     105,
		Happiness: 50,
	}
	if roomID != uuid.Nil {
		id := roomID
		d.AssignedRoomID = &id
	}
	store.SeedDweller(d)
	return d
}

func TestTick_DefeatInTwoRounds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	v := vault.NewVault(101, "Test", now)
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)
	defender := seedDefender(store, v.ID, room.ID)

	in := incident.New(v.ID, room.ID, incident.TypeFire, 1, 1, 1, now)
	in.CurrentHP = 15
	in.MaxHP = 15
	store.SeedIncident(in)

	s := newTestScheduler(store, notifier, now)
	s.WeaponMin = 10
	s.WeaponMax = 10
	s.PetBonus = 0

	repo := memory.NewIncidentRepo(store)
	s.Tick(context.Background())

	active, _ := repo.ListActiveByVault(context.Background(), v.ID)
	if len(active) != 1 {
		t.Fatalf("active incidents after round 1 = %d, want 1", len(active))
	}
	if got := active[0].CurrentHP; got != 5 {
		t.Fatalf("incident hp after round 1 = %d, want 5", got)
	}
	hpAfterRound1, _ := memory.NewDwellerRepo(store).GetByID(context.Background(), defender.ID)
	if hpAfterRound1.CurrentHP >= 105 {
		t.Fatalf("defender took no retaliation in round 1")
	}

	s.Tick(context.Background())

	active, _ = repo.ListActiveByVault(context.Background(), v.ID)
	if len(active) != 0 {
		t.Fatalf("incident still active after round 2")
	}

	// The killing blow breaks the loop before retaliation.
	final, _ := memory.NewDwellerRepo(store).GetByID(context.Background(), defender.ID)
	if final.CurrentHP != hpAfterRound1.CurrentHP {
		t.Fatalf("defender damaged on the defeat round: %.2f -> %.2f",
			hpAfterRound1.CurrentHP, final.CurrentHP)
	}
	if want := incident.TypeFire.XPReward(); final.Experience != want {
		t.Fatalf("defender xp = %d, want %d", final.Experience, want)
	}
}

func TestTick_RaiderStealsCaps(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	v := vault.NewVault(101, "Rich", now)
	v.Caps = 100
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)

	in := incident.New(v.ID, room.ID, incident.TypeRaider, 1, 1, 1, now)
	store.SeedIncident(in)

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	gotVault, _ := memory.NewVaultRepo(store).GetByID(context.Background(), v.ID)
	// 5 caps/s over the 5s tick.
	if gotVault.Caps != 75 {
		t.Fatalf("caps = %d, want 75", gotVault.Caps)
	}
	active, _ := memory.NewIncidentRepo(store).ListActiveByVault(context.Background(), v.ID)
	if got := active[0].CapsStolen; got != 25 {
		t.Fatalf("capsStolen = %d, want 25", got)
	}
}

func TestTick_UndefendedFireSpreads(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	v := vault.NewVault(101, "Empty", now)
	store.SeedVault(v)
	burning := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	neighbor := vault.NewRoom(v.ID, vault.RoomWaterTreatment, 1, 1, now)
	store.SeedRoom(burning)
	store.SeedRoom(neighbor)

	in := incident.New(v.ID, burning.ID, incident.TypeFire, 1, 1, 1, now)
	hpBefore := in.CurrentHP
	store.SeedIncident(in)

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	active, _ := memory.NewIncidentRepo(store).ListActiveByVault(context.Background(), v.ID)
	got := active[0]
	if !got.HasSpreadTo(neighbor.ID) {
		t.Fatalf("fire did not spread to the adjacent empty room")
	}
	if want := hpBefore + incident.TypeFire.BaseHP()/2; got.CurrentHP != want {
		t.Fatalf("hp after spread = %d, want %d", got.CurrentHP, want)
	}
}

func TestTick_DefendedRoomBlocksSpread(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	v := vault.NewVault(101, "Held", now)
	store.SeedVault(v)
	burning := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	neighbor := vault.NewRoom(v.ID, vault.RoomWaterTreatment, 1, 1, now)
	store.SeedRoom(burning)
	store.SeedRoom(neighbor)
	seedDefender(store, v.ID, neighbor.ID)

	in := incident.New(v.ID, burning.ID, incident.TypeFire, 1, 1, 1, now)
	store.SeedIncident(in)

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	active, _ := memory.NewIncidentRepo(store).ListActiveByVault(context.Background(), v.ID)
	if active[0].HasSpreadTo(neighbor.ID) {
		t.Fatalf("fire spread into an occupied room")
	}
}

func TestTick_SpawnPassCreatesIncidentAndHonorsCooldown(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	v := vault.NewVault(101, "Target", now)
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)
	seedDefender(store, v.ID, uuid.Nil)
	seedDefender(store, v.ID, uuid.Nil)

	s := newTestScheduler(store, notifier, now)
	s.SpawnChance = 1.0
	s.SpawnCooldown = time.Hour

	for i := 0; i < SpawnCheckTicks; i++ {
		s.Tick(context.Background())
	}

	if len(notifier.spawned) != 1 {
		t.Fatalf("spawn notifications = %d, want 1", len(notifier.spawned))
	}
	active, _ := memory.NewIncidentRepo(store).ListActiveByVault(context.Background(), v.ID)
	if len(active) != 1 {
		t.Fatalf("active incidents = %d, want 1", len(active))
	}
	if active[0].RoomID != room.ID {
		t.Fatalf("incident spawned in unexpected room")
	}

	// Cooldown suppresses the next spawn window entirely.
	before := len(notifier.spawned)
	for i := 0; i < SpawnCheckTicks; i++ {
		s.Tick(context.Background())
	}
	if len(notifier.spawned) != before {
		t.Fatalf("cooldown ignored: spawned again within the window")
	}
}
