package incidentsched

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// cooldownMap remembers when each vault last received a random incident.
// Guarded by a mutex; the spawn pass and tests touch it concurrently.
type cooldownMap struct {
	mu   sync.Mutex
	last map[uuid.UUID]time.Time
}

func newCooldownMap() *cooldownMap {
	return &cooldownMap{last: make(map[uuid.UUID]time.Time)}
}

// Ready reports whether the vault's cooldown has elapsed.
func (c *cooldownMap) Ready(vaultID uuid.UUID, now time.Time, cooldown time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.last[vaultID]
	return !ok || now.Sub(last) >= cooldown
}

// MarkSpawned records a spawn, restarting the vault's cooldown.
func (c *cooldownMap) MarkSpawned(vaultID uuid.UUID, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[vaultID] = now
}
