package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/vault"
)

type VaultRepo struct {
	store *Store
}

func NewVaultRepo(store *Store) VaultRepo {
	return VaultRepo{store: store}
}

func (r VaultRepo) List(_ context.Context) ([]vault.Vault, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]vault.Vault, 0, len(r.store.vaults))
	for _, v := range r.store.vaults {
		out = append(out, v)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Number < out[b].Number })
	return out, nil
}

func (r VaultRepo) GetByID(_ context.Context, id uuid.UUID) (vault.Vault, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	v, ok := r.store.vaults[id]
	if !ok {
		return vault.Vault{}, ports.ErrNotFound
	}
	return v, nil
}

func (r VaultRepo) GetByNumber(_ context.Context, number int64) (vault.Vault, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, v := range r.store.vaults {
		if v.Number == number {
			return v, nil
		}
	}
	return vault.Vault{}, ports.ErrNotFound
}

func (r VaultRepo) Create(_ context.Context, v vault.Vault) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.vaults[v.ID]; exists {
		return ports.ErrConflict
	}
	r.store.vaults[v.ID] = v
	return nil
}

func (r VaultRepo) SaveWithVersion(_ context.Context, v vault.Vault, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.vaults[v.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.vaults[v.ID] = v
	return nil
}

func (r VaultRepo) NextNumber(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	next := int64(101)
	for _, v := range r.store.vaults {
		if v.Number >= next {
			next = v.Number + 1
		}
	}
	return next, nil
}
