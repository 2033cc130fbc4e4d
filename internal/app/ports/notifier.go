package ports

import (
	"github.com/google/uuid"

	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
)

// Notifier surfaces state changes to the presentation layer. All methods are
// fire-and-forget: they must never block scheduler progress and failures are
// swallowed by the implementation.
type Notifier interface {
	NotifyIncidentSpawned(vaultID uuid.UUID, in incident.Incident)
	NotifyExplorerReturned(vaultID uuid.UUID, e expedition.Expedition)
	NotifyExplorerDied(vaultID uuid.UUID, e expedition.Expedition)
}

// NopNotifier discards everything.
type NopNotifier struct{}

func (NopNotifier) NotifyIncidentSpawned(uuid.UUID, incident.Incident)      {}
func (NopNotifier) NotifyExplorerReturned(uuid.UUID, expedition.Expedition) {}
func (NopNotifier) NotifyExplorerDied(uuid.UUID, expedition.Expedition)     {}
