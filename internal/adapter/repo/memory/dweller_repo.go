package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
)

type DwellerRepo struct {
	store *Store
}

func NewDwellerRepo(store *Store) DwellerRepo {
	return DwellerRepo{store: store}
}

func (r DwellerRepo) ListByVault(_ context.Context, vaultID uuid.UUID, filter ports.DwellerFilter) ([]dweller.Dweller, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []dweller.Dweller
	for _, d := range r.store.dwellers {
		if d.VaultID != vaultID {
			continue
		}
		if filter.AliveOnly && !d.Alive() {
			continue
		}
		if filter.RoomID != nil {
			if d.AssignedRoomID == nil || *d.AssignedRoomID != *filter.RoomID {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID.String() < out[b].ID.String() })
	return out, nil
}

func (r DwellerRepo) GetByID(_ context.Context, id uuid.UUID) (dweller.Dweller, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d, ok := r.store.dwellers[id]
	if !ok {
		return dweller.Dweller{}, ports.ErrNotFound
	}
	return d, nil
}

func (r DwellerRepo) CountByVault(_ context.Context, vaultID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, d := range r.store.dwellers {
		if d.VaultID == vaultID {
			count++
		}
	}
	return count, nil
}

func (r DwellerRepo) Create(_ context.Context, d dweller.Dweller) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.dwellers[d.ID]; exists {
		return ports.ErrConflict
	}
	r.store.dwellers[d.ID] = d
	return nil
}

func (r DwellerRepo) SaveWithVersion(_ context.Context, d dweller.Dweller, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.dwellers[d.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.dwellers[d.ID] = d
	return nil
}
