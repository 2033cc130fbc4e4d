package resourcesched

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaultown/internal/adapter/repo/memory"
	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/vault"
)

func newTestScheduler(store *memory.Store, now time.Time) *Scheduler {
	s := New(
		memory.NewVaultRepo(store),
		memory.NewRoomRepo(store),
		memory.NewDwellerRepo(store),
		zap.NewNop(),
		nil,
	)
	s.Now = func() time.Time { return now }
	return s
}

func seedWorker(store *memory.Store, vaultID uuid.UUID, roomID uuid.UUID, agility int) dweller.Dweller {
	d := dweller.Dweller{
		ID:        uuid.New(),
		VaultID:   vaultID,
		Name:      "Worker",
		Level:     1,
		CurrentHP: 105,
		MaxHP:     105,
		Happiness: 50,
	}
	d.Stats = dweller.NewScores(5, 5, 5, 5, 5, agility, 5)
	if roomID != uuid.Nil {
		id := roomID
		d.AssignedRoomID = &id
	}
	store.SeedDweller(d)
	return d
}

func TestTick_DinerCompletesOneCycle(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()

	// One worker with agility 5 and happiness 50 gives a cycle of
	// 60/(1+0.5+0.05) = 38.7s; 39 elapsed seconds completes exactly one.
	v := vault.NewVault(101, "Test Vault", now.Add(-39*time.Second))
	store.SeedVault(v)
	diner := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(diner)
	seedWorker(store, v.ID, diner.ID, 5)

	s := newTestScheduler(store, now)
	s.Tick(context.Background())

	got, err := memory.NewVaultRepo(store).GetByID(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("get vault: %v", err)
	}
	elapsed := 39.0 / 60.0
	want := 50 + 10 - vault.ConsumptionPerDwellerPerMinute*elapsed
	if math.Abs(got.Food-want) > 0.01 {
		t.Fatalf("food = %.4f, want %.4f", got.Food, want)
	}
	if got.LastUpdate != now {
		t.Fatalf("lastUpdate not advanced: %v", got.LastUpdate)
	}

	room, err := memory.NewRoomRepo(store).GetByID(context.Background(), diner.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if room.State != vault.StateProducing {
		t.Fatalf("room state = %q, want producing", room.State)
	}
	if room.Progress >= 1 {
		t.Fatalf("progress not consumed by cycle credit: %.4f", room.Progress)
	}
}

func TestTick_DebounceSkipsFreshVault(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()

	v := vault.NewVault(101, "Fresh", now.Add(-time.Second))
	store.SeedVault(v)

	s := newTestScheduler(store, now)
	s.Tick(context.Background())

	got, _ := memory.NewVaultRepo(store).GetByID(context.Background(), v.ID)
	if got.Version != 0 {
		t.Fatalf("debounced vault was saved, version = %d", got.Version)
	}
	if got.Food != v.Food || got.Power != v.Power {
		t.Fatalf("debounced vault mutated: food=%.2f power=%.2f", got.Food, got.Power)
	}
}

func TestTick_StarvationAppliesOneTickOfDamage(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()

	v := vault.NewVault(101, "Hungry", now.Add(-10*time.Minute))
	v.Food = 5
	v.Water = 0
	store.SeedVault(v)
	d1 := seedWorker(store, v.ID, uuid.Nil, 5)
	d2 := seedWorker(store, v.ID, uuid.Nil, 5)

	s := newTestScheduler(store, now)
	s.Tick(context.Background())

	repo := memory.NewDwellerRepo(store)
	for _, id := range []uuid.UUID{d1.ID, d2.ID} {
		got, err := repo.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get dweller: %v", err)
		}
		// Food crossed zero this tick: 1 HP/min over 10 minutes, once.
		if math.Abs(got.CurrentHP-95) > 1e-9 {
			t.Fatalf("hp = %.4f, want 95", got.CurrentHP)
		}
		// Water was already empty: 0.5 rads/min over 10 minutes.
		if math.Abs(got.Radiation-5) > 1e-9 {
			t.Fatalf("radiation = %.4f, want 5", got.Radiation)
		}
	}

	gotVault, _ := memory.NewVaultRepo(store).GetByID(context.Background(), v.ID)
	if gotVault.Food != 0 {
		t.Fatalf("food = %.4f, want 0", gotVault.Food)
	}
}

func TestTick_ResourcesStayInBounds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()

	v := vault.NewVault(101, "Bounds", now.Add(-8*time.Hour))
	v.Power = 1
	store.SeedVault(v)
	for _, r := range vault.StartingRooms(v.ID, now) {
		store.SeedRoom(r)
	}
	seedWorker(store, v.ID, uuid.Nil, 5)

	s := newTestScheduler(store, now)
	s.Tick(context.Background())

	got, _ := memory.NewVaultRepo(store).GetByID(context.Background(), v.ID)
	if got.Power < 0 || got.Power > got.MaxPower {
		t.Fatalf("power out of bounds: %.4f", got.Power)
	}
	if got.Food < 0 || got.Food > got.MaxFood {
		t.Fatalf("food out of bounds: %.4f", got.Food)
	}
	if got.Water < 0 || got.Water > got.MaxWater {
		t.Fatalf("water out of bounds: %.4f", got.Water)
	}
}

// failingRooms errors for one vault to prove failure isolation.
type failingRooms struct {
	memory.RoomRepo
	failFor uuid.UUID
}

func (f failingRooms) ListByVault(ctx context.Context, vaultID uuid.UUID) ([]vault.Room, error) {
	if vaultID == f.failFor {
		return nil, errors.New("store timeout")
	}
	return f.RoomRepo.ListByVault(ctx, vaultID)
}

func TestTick_FailureInOneVaultDoesNotAbortBatch(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()

	bad := vault.NewVault(101, "Bad", now.Add(-5*time.Minute))
	good := vault.NewVault(102, "Good", now.Add(-5*time.Minute))
	store.SeedVault(bad)
	store.SeedVault(good)

	s := newTestScheduler(store, now)
	s.rooms = failingRooms{RoomRepo: memory.NewRoomRepo(store), failFor: bad.ID}
	s.Tick(context.Background())

	repo := memory.NewVaultRepo(store)
	gotBad, _ := repo.GetByID(context.Background(), bad.ID)
	gotGood, _ := repo.GetByID(context.Background(), good.ID)
	if gotBad.LastUpdate != bad.LastUpdate {
		t.Fatalf("failed vault should be untouched")
	}
	if gotGood.LastUpdate != now {
		t.Fatalf("healthy vault not processed: lastUpdate = %v", gotGood.LastUpdate)
	}
}

var _ ports.RoomRepository = failingRooms{}
