package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCache_BindAndExpire(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewCache()
	c.Now = func() time.Time { return now }

	vaultID := uuid.New()
	c.BindVault("player-1", vaultID)

	got, ok := c.ActiveVault("player-1")
	if !ok || got != vaultID {
		t.Fatalf("ActiveVault = %v, %v; want %v, true", got, ok, vaultID)
	}

	now = now.Add(DefaultTTL + time.Minute)
	if _, ok := c.ActiveVault("player-1"); ok {
		t.Fatalf("session survived past TTL")
	}
}

func TestCache_AccessRefreshesTTL(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewCache()
	c.Now = func() time.Time { return now }

	c.BindVault("player-1", uuid.New())

	now = now.Add(DefaultTTL - time.Minute)
	if _, ok := c.ActiveVault("player-1"); !ok {
		t.Fatalf("session expired early")
	}
	now = now.Add(DefaultTTL - time.Minute)
	if _, ok := c.ActiveVault("player-1"); !ok {
		t.Fatalf("access did not refresh the TTL")
	}
}

func TestCache_RushWindowPrunes(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewCache()
	c.Now = func() time.Time { return now }

	roomID := uuid.New()
	if got := c.RecordRush("player-1", roomID); got != 1 {
		t.Fatalf("first rush count = %d, want 1", got)
	}
	if got := c.RecordRush("player-1", roomID); got != 2 {
		t.Fatalf("second rush count = %d, want 2", got)
	}

	now = now.Add(RushWindow + time.Minute)
	if got := c.RecentRushCount("player-1", roomID); got != 0 {
		t.Fatalf("stale rushes survived the window: %d", got)
	}
	if got := c.RecordRush("player-1", roomID); got != 1 {
		t.Fatalf("rush count after window = %d, want 1", got)
	}
}
