package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/expedition"
)

type ExpeditionRepo struct {
	store *Store
}

func NewExpeditionRepo(store *Store) ExpeditionRepo {
	return ExpeditionRepo{store: store}
}

func (r ExpeditionRepo) ListActive(_ context.Context) ([]expedition.Expedition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []expedition.Expedition
	for _, e := range r.store.expeditions {
		if e.Status == expedition.StatusExploring || e.Status == expedition.StatusReturning {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID.String() < out[b].ID.String() })
	return out, nil
}

func (r ExpeditionRepo) GetByID(_ context.Context, id uuid.UUID) (expedition.Expedition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.expeditions[id]
	if !ok {
		return expedition.Expedition{}, ports.ErrNotFound
	}
	return e, nil
}

func (r ExpeditionRepo) GetByDweller(_ context.Context, dwellerID uuid.UUID) (expedition.Expedition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, e := range r.store.expeditions {
		if e.DwellerID == dwellerID {
			return e, nil
		}
	}
	return expedition.Expedition{}, ports.ErrNotFound
}

func (r ExpeditionRepo) Create(_ context.Context, e expedition.Expedition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.expeditions[e.ID]; exists {
		return ports.ErrConflict
	}
	r.store.expeditions[e.ID] = e
	return nil
}

func (r ExpeditionRepo) SaveWithVersion(_ context.Context, e expedition.Expedition, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.expeditions[e.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.expeditions[e.ID] = e
	return nil
}

func (r ExpeditionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.expeditions[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.expeditions, id)
	return nil
}
