package expeditionsched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaultown/internal/adapter/repo/memory"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	returned []uuid.UUID
	died     []uuid.UUID
}

func (n *recordingNotifier) NotifyIncidentSpawned(uuid.UUID, incident.Incident) {}

func (n *recordingNotifier) NotifyExplorerReturned(vaultID uuid.UUID, _ expedition.Expedition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.returned = append(n.returned, vaultID)
}

func (n *recordingNotifier) NotifyExplorerDied(vaultID uuid.UUID, _ expedition.Expedition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.died = append(n.died, vaultID)
}

func newTestScheduler(store *memory.Store, notifier *recordingNotifier, now time.Time) *Scheduler {
	s := New(memory.NewExpeditionRepo(store), notifier, zap.NewNop(), nil)
	s.Now = func() time.Time { return now }
	return s
}

func seedTrip(store *memory.Store, started time.Time) expedition.Expedition {
	e := expedition.Expedition{
		ID:          uuid.New(),
		VaultID:     uuid.New(),
		DwellerID:   uuid.New(),
		DwellerName: "Scout",
		Status:      expedition.StatusExploring,
		StartTime:   started,
		CurrentHP:   105,
		MaxHP:       105,
		Luck:        5,
		ReturnSpeed: 1,
	}
	store.SeedExpedition(e)
	return e
}

func TestTick_GuaranteedLootAtMinute60(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	trip := seedTrip(store, now.Add(-61*time.Minute))

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	got, err := memory.NewExpeditionRepo(store).GetByID(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("get expedition: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want exactly 1", len(got.Events))
	}
	ev := got.Events[0]
	if ev.Minute != expedition.GuaranteedLootMinute {
		t.Fatalf("event minute = %d, want %d", ev.Minute, expedition.GuaranteedLootMinute)
	}
	if got.LastEventMinute != expedition.GuaranteedLootMinute {
		t.Fatalf("lastEventMinute = %d, want %d", got.LastEventMinute, expedition.GuaranteedLootMinute)
	}
}

func TestTick_FullInventoryForcesReturn(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	trip := seedTrip(store, now.Add(-30*time.Minute))
	trip.Items = expedition.MaxItems
	store.SeedExpedition(trip)

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	got, _ := memory.NewExpeditionRepo(store).GetByID(context.Background(), trip.ID)
	if got.Status != expedition.StatusReturning {
		t.Fatalf("status = %q, want returning", got.Status)
	}
	if got.ReturnStart == nil || !got.ReturnStart.Equal(now) {
		t.Fatalf("returnStart = %v, want %v", got.ReturnStart, now)
	}
}

func TestTick_ReturnCompletes(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	// 60 minutes out, return leg takes 30; the leg started 31 minutes ago.
	returnStart := now.Add(-31 * time.Minute)
	trip := seedTrip(store, now.Add(-91*time.Minute))
	trip.Status = expedition.StatusReturning
	trip.ReturnStart = &returnStart
	store.SeedExpedition(trip)

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	got, _ := memory.NewExpeditionRepo(store).GetByID(context.Background(), trip.ID)
	if got.Status != expedition.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if len(notifier.returned) != 1 {
		t.Fatalf("returned notifications = %d, want 1", len(notifier.returned))
	}
}

func TestTick_ZeroHPMarksDead(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	trip := seedTrip(store, now.Add(-20*time.Minute))
	trip.CurrentHP = 0
	store.SeedExpedition(trip)

	s := newTestScheduler(store, notifier, now)
	s.Tick(context.Background())

	got, _ := memory.NewExpeditionRepo(store).GetByID(context.Background(), trip.ID)
	if got.Status != expedition.StatusDead {
		t.Fatalf("status = %q, want dead", got.Status)
	}
	if len(notifier.died) != 1 {
		t.Fatalf("death notifications = %d, want 1", len(notifier.died))
	}

	// Death is terminal: the next tick must not touch the record again.
	active, _ := memory.NewExpeditionRepo(store).ListActive(context.Background())
	if len(active) != 0 {
		t.Fatalf("dead expedition still listed active")
	}
}

func TestTick_RandomEventAdvancesCursor(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	trip := seedTrip(store, now.Add(-30*time.Minute))
	trip.LastEventMinute = 10
	store.SeedExpedition(trip)

	s := newTestScheduler(store, notifier, now)
	// Zero mean interval: the jitter range tops out at 10 minutes, so a
	// 30 minute gap always fires.
	s.EventIntervalMinutes = 0
	s.Tick(context.Background())

	got, _ := memory.NewExpeditionRepo(store).GetByID(context.Background(), trip.ID)
	if len(got.Events) == 0 {
		t.Fatalf("no event generated")
	}
	if got.LastEventMinute != 30 {
		t.Fatalf("lastEventMinute = %d, want 30", got.LastEventMinute)
	}
}
