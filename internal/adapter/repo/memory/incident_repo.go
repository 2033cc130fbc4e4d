package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/incident"
)

type IncidentRepo struct {
	store *Store
}

func NewIncidentRepo(store *Store) IncidentRepo {
	return IncidentRepo{store: store}
}

func (r IncidentRepo) ListActive(_ context.Context) ([]incident.Incident, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []incident.Incident
	for _, in := range r.store.incidents {
		if in.IsActive {
			out = append(out, in)
		}
	}
	sortIncidents(out)
	return out, nil
}

func (r IncidentRepo) ListActiveByVault(_ context.Context, vaultID uuid.UUID) ([]incident.Incident, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []incident.Incident
	for _, in := range r.store.incidents {
		if in.IsActive && in.VaultID == vaultID {
			out = append(out, in)
		}
	}
	sortIncidents(out)
	return out, nil
}

func (r IncidentRepo) Create(_ context.Context, in incident.Incident) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.incidents[in.ID]; exists {
		return ports.ErrConflict
	}
	r.store.incidents[in.ID] = in
	return nil
}

func (r IncidentRepo) SaveWithVersion(_ context.Context, in incident.Incident, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.incidents[in.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.incidents[in.ID] = in
	return nil
}

func sortIncidents(out []incident.Incident) {
	sort.Slice(out, func(a, b int) bool { return out[a].StartTime.Before(out[b].StartTime) })
}
