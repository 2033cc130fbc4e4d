// Package session keeps short-lived per-player state that does not belong
// in the store: the active vault binding and recent rush attempts. Entries
// expire after a TTL of inactivity.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL of an idle session.
const DefaultTTL = 30 * time.Minute

// RushWindow bounds how long a rush counts as "recent" for the failure
// penalty.
const RushWindow = 10 * time.Minute

type entry struct {
	vaultID uuid.UUID
	rushes  map[uuid.UUID][]time.Time
	touched time.Time
}

// Cache is a mutex-guarded TTL map keyed by player identifier. Expired
// entries are swept opportunistically on access.
type Cache struct {
	TTL time.Duration
	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewCache() *Cache {
	return &Cache{
		TTL:      DefaultTTL,
		Now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// BindVault attaches the player's session to a vault.
func (c *Cache) BindVault(player string, vaultID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Now()
	c.sweep(now)
	e := c.touch(player, now)
	e.vaultID = vaultID
}

// ActiveVault returns the vault bound to the player's session.
func (c *Cache) ActiveVault(player string) (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Now()
	c.sweep(now)
	e, ok := c.sessions[player]
	if !ok || e.vaultID == uuid.Nil {
		return uuid.Nil, false
	}
	e.touched = now
	return e.vaultID, true
}

// RecordRush notes a rush attempt on a room and returns how many rushes the
// player made on that room inside the rush window, this one included.
func (c *Cache) RecordRush(player string, roomID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Now()
	c.sweep(now)
	e := c.touch(player, now)
	recent := pruneRushes(e.rushes[roomID], now)
	recent = append(recent, now)
	e.rushes[roomID] = recent
	return len(recent)
}

// RecentRushCount reports rushes on a room inside the rush window.
func (c *Cache) RecentRushCount(player string, roomID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Now()
	c.sweep(now)
	e, ok := c.sessions[player]
	if !ok {
		return 0
	}
	recent := pruneRushes(e.rushes[roomID], now)
	e.rushes[roomID] = recent
	return len(recent)
}

// Drop removes a player's session outright.
func (c *Cache) Drop(player string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, player)
}

func (c *Cache) touch(player string, now time.Time) *entry {
	e, ok := c.sessions[player]
	if !ok {
		e = &entry{rushes: make(map[uuid.UUID][]time.Time)}
		c.sessions[player] = e
	}
	e.touched = now
	return e
}

func (c *Cache) sweep(now time.Time) {
	for player, e := range c.sessions {
		if now.Sub(e.touched) > c.TTL {
			delete(c.sessions, player)
		}
	}
}

func pruneRushes(stamps []time.Time, now time.Time) []time.Time {
	kept := stamps[:0:0]
	for _, t := range stamps {
		if now.Sub(t) <= RushWindow {
			kept = append(kept, t)
		}
	}
	return kept
}
