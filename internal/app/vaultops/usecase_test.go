package vaultops

import (
	"context"
	"errors"
	"testing"
	"time"

	"vaultown/internal/adapter/repo/memory"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/vault"
)

func newTestUseCase(store *memory.Store, now time.Time) UseCase {
	return UseCase{
		Tx:        memory.NewTxManager(store),
		Vaults:    memory.NewVaultRepo(store),
		Rooms:     memory.NewRoomRepo(store),
		Dwellers:  memory.NewDwellerRepo(store),
		Incidents: memory.NewIncidentRepo(store),
		Now:       func() time.Time { return now },
	}
}

func TestCreateVault(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	res, err := uc.CreateVault(context.Background(), "Vaultown")
	if err != nil {
		t.Fatalf("create vault: %v", err)
	}
	if res.Vault.Number != 101 {
		t.Fatalf("vault number = %d, want 101", res.Vault.Number)
	}
	if res.Vault.Caps != 500 {
		t.Fatalf("starting caps = %d, want 500", res.Vault.Caps)
	}
	if len(res.Rooms) != 6 {
		t.Fatalf("starting rooms = %d, want 6", len(res.Rooms))
	}
	if len(res.Dwellers) != StartingDwellers {
		t.Fatalf("starting dwellers = %d, want %d", len(res.Dwellers), StartingDwellers)
	}

	second, err := uc.CreateVault(context.Background(), "Annex")
	if err != nil {
		t.Fatalf("create second vault: %v", err)
	}
	if second.Vault.Number != 102 {
		t.Fatalf("second vault number = %d, want 102", second.Vault.Number)
	}
}

func TestBuildRoom(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	created, err := uc.CreateVault(context.Background(), "Builder")
	if err != nil {
		t.Fatalf("create vault: %v", err)
	}
	vaultID := created.Vault.ID

	// Next to the power generator at (3,0).
	room, err := uc.BuildRoom(context.Background(), vaultID, vault.RoomPowerGenerator, 4, 0)
	if err != nil {
		t.Fatalf("build room: %v", err)
	}
	if room.Level != 1 || room.Width != 1 {
		t.Fatalf("new room level=%d width=%d, want 1/1", room.Level, room.Width)
	}

	v, _ := uc.Vaults.GetByID(context.Background(), vaultID)
	if want := 500 - room.BuildCost(); v.Caps != want {
		t.Fatalf("caps after build = %d, want %d", v.Caps, want)
	}

	// Overlapping the diner at (3,1).
	if _, err := uc.BuildRoom(context.Background(), vaultID, vault.RoomDiner, 3, 1); !errors.Is(err, ErrInvalidPlacement) {
		t.Fatalf("overlap error = %v, want ErrInvalidPlacement", err)
	}

	// Population-gated type with only the starting dwellers.
	if _, err := uc.BuildRoom(context.Background(), vaultID, vault.RoomNuclearReactor, 5, 0); !errors.Is(err, ErrRoomLocked) {
		t.Fatalf("locked error = %v, want ErrRoomLocked", err)
	}

	// Infrastructure door is not player-buildable.
	if _, err := uc.BuildRoom(context.Background(), vaultID, vault.RoomVaultDoor, 6, 0); !errors.Is(err, ErrRoomNotBuildable) {
		t.Fatalf("door error = %v, want ErrRoomNotBuildable", err)
	}
}

func TestUpgradeRoom(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	v := vault.NewVault(101, "Upgrader", now)
	v.Caps = 10_000
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)

	cost, _ := room.UpgradeCost()
	upgraded, err := uc.UpgradeRoom(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if upgraded.Level != 2 {
		t.Fatalf("level = %d, want 2", upgraded.Level)
	}
	gotVault, _ := uc.Vaults.GetByID(context.Background(), v.ID)
	if want := 10_000 - cost; gotVault.Caps != want {
		t.Fatalf("caps = %d, want %d", gotVault.Caps, want)
	}
}

func TestAssignDweller_CapacityEnforced(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	v := vault.NewVault(101, "Crowded", now)
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)

	capacity := room.Capacity()
	for i := 0; i < capacity; i++ {
		d := dweller.New(v.ID, "Worker", dweller.GenderFemale, dweller.RarityCommon)
		id := room.ID
		d.AssignedRoomID = &id
		store.SeedDweller(d)
	}
	extra := dweller.New(v.ID, "Latecomer", dweller.GenderMale, dweller.RarityCommon)
	store.SeedDweller(extra)

	roomID := room.ID
	if _, err := uc.AssignDweller(context.Background(), extra.ID, &roomID); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("assign to full room = %v, want ErrRoomFull", err)
	}

	if got, err := uc.AssignDweller(context.Background(), extra.ID, nil); err != nil || got.AssignedRoomID != nil {
		t.Fatalf("unassign failed: %v", err)
	}
}

func TestReviveDweller(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	v := vault.NewVault(101, "Clinic", now)
	store.SeedVault(v)
	d := dweller.New(v.ID, "Casualty", dweller.GenderMale, dweller.RarityCommon)
	d.CurrentHP = 0
	store.SeedDweller(d)

	revived, err := uc.ReviveDweller(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("revive: %v", err)
	}
	if !revived.Alive() {
		t.Fatalf("dweller still down after revival")
	}
	gotVault, _ := uc.Vaults.GetByID(context.Background(), v.ID)
	if want := 500 - d.RevivalCost(); gotVault.Caps != want {
		t.Fatalf("caps = %d, want %d", gotVault.Caps, want)
	}

	if _, err := uc.ReviveDweller(context.Background(), d.ID); !errors.Is(err, ErrDwellerNotDown) {
		t.Fatalf("double revive = %v, want ErrDwellerNotDown", err)
	}
}

func TestRushRoom_PerfectCrewAlwaysSucceeds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	v := vault.NewVault(101, "Lucky", now)
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)

	// All stats 10: failure = 40 - 2*(10 + 70/7) = 0.
	d := dweller.New(v.ID, "Ace", dweller.GenderFemale, dweller.RarityLegendary)
	d.Stats = dweller.NewScores(10, 10, 10, 10, 10, 10, 10)
	id := room.ID
	d.AssignedRoomID = &id
	store.SeedDweller(d)

	res, err := uc.RushRoom(context.Background(), room.ID, 0)
	if err != nil {
		t.Fatalf("rush: %v", err)
	}
	if !res.Success {
		t.Fatalf("perfect crew rush failed (failure%%=%.1f)", res.FailurePercent)
	}
	if res.CapsReward < 20 || res.CapsReward > 100 {
		t.Fatalf("caps reward = %d, want in [20,100]", res.CapsReward)
	}

	gotVault, _ := uc.Vaults.GetByID(context.Background(), v.ID)
	if gotVault.Food <= v.Food {
		t.Fatalf("rushed diner credited no food")
	}
	gotDweller, _ := uc.Dwellers.GetByID(context.Background(), d.ID)
	if gotDweller.Experience == 0 {
		t.Fatalf("crew earned no XP")
	}
}

func TestRushRoom_EmptyCrewAlwaysFails(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	uc := newTestUseCase(store, now)

	v := vault.NewVault(101, "Reckless", now)
	store.SeedVault(v)
	room := vault.NewRoom(v.ID, vault.RoomDiner, 0, 1, now)
	store.SeedRoom(room)
	// Enough population for fire incidents, nobody in the room.
	store.SeedDweller(dweller.New(v.ID, "Bystander", dweller.GenderMale, dweller.RarityCommon))
	store.SeedDweller(dweller.New(v.ID, "Onlooker", dweller.GenderFemale, dweller.RarityCommon))

	res, err := uc.RushRoom(context.Background(), room.ID, 0)
	if err != nil {
		t.Fatalf("rush: %v", err)
	}
	if res.Success {
		t.Fatalf("uncrewed rush succeeded")
	}
	if res.Incident == nil {
		t.Fatalf("failed rush spawned no incident")
	}
	if res.Incident.RoomID != room.ID {
		t.Fatalf("incident spawned in wrong room")
	}

	active, _ := uc.Incidents.ListActiveByVault(context.Background(), v.ID)
	if len(active) != 1 {
		t.Fatalf("active incidents = %d, want 1", len(active))
	}
}
