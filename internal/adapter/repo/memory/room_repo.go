package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/vault"
)

type RoomRepo struct {
	store *Store
}

func NewRoomRepo(store *Store) RoomRepo {
	return RoomRepo{store: store}
}

func (r RoomRepo) ListByVault(_ context.Context, vaultID uuid.UUID) ([]vault.Room, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []vault.Room
	for _, room := range r.store.rooms {
		if room.VaultID == vaultID {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Y != out[b].Y {
			return out[a].Y < out[b].Y
		}
		return out[a].X < out[b].X
	})
	return out, nil
}

func (r RoomRepo) GetByID(_ context.Context, id uuid.UUID) (vault.Room, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	room, ok := r.store.rooms[id]
	if !ok {
		return vault.Room{}, ports.ErrNotFound
	}
	return room, nil
}

func (r RoomRepo) Create(_ context.Context, room vault.Room) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.rooms[room.ID]; exists {
		return ports.ErrConflict
	}
	r.store.rooms[room.ID] = room
	return nil
}

func (r RoomRepo) SaveWithVersion(_ context.Context, room vault.Room, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.rooms[room.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.rooms[room.ID] = room
	return nil
}

func (r RoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.rooms[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.rooms, id)
	return nil
}
