package ports

import (
	"context"

	"github.com/google/uuid"

	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

// DwellerFilter narrows ListByVault queries.
type DwellerFilter struct {
	// RoomID limits to dwellers assigned to a room.
	RoomID *uuid.UUID
	// AliveOnly excludes downed dwellers.
	AliveOnly bool
}

type VaultRepository interface {
	List(ctx context.Context) ([]vault.Vault, error)
	GetByID(ctx context.Context, id uuid.UUID) (vault.Vault, error)
	GetByNumber(ctx context.Context, number int64) (vault.Vault, error)
	Create(ctx context.Context, v vault.Vault) error
	// SaveWithVersion persists when the stored version matches
	// expectedVersion, returning ErrConflict otherwise. The caller bumps
	// v.Version before saving.
	SaveWithVersion(ctx context.Context, v vault.Vault, expectedVersion int64) error
	NextNumber(ctx context.Context) (int64, error)
}

type RoomRepository interface {
	ListByVault(ctx context.Context, vaultID uuid.UUID) ([]vault.Room, error)
	GetByID(ctx context.Context, id uuid.UUID) (vault.Room, error)
	Create(ctx context.Context, r vault.Room) error
	SaveWithVersion(ctx context.Context, r vault.Room, expectedVersion int64) error
	// Delete removes a room absorbed by a merge.
	Delete(ctx context.Context, id uuid.UUID) error
}

type DwellerRepository interface {
	ListByVault(ctx context.Context, vaultID uuid.UUID, filter DwellerFilter) ([]dweller.Dweller, error)
	GetByID(ctx context.Context, id uuid.UUID) (dweller.Dweller, error)
	CountByVault(ctx context.Context, vaultID uuid.UUID) (int, error)
	Create(ctx context.Context, d dweller.Dweller) error
	SaveWithVersion(ctx context.Context, d dweller.Dweller, expectedVersion int64) error
}

type ExpeditionRepository interface {
	// ListActive returns expeditions still in the field (exploring or
	// returning) across all vaults.
	ListActive(ctx context.Context) ([]expedition.Expedition, error)
	GetByID(ctx context.Context, id uuid.UUID) (expedition.Expedition, error)
	GetByDweller(ctx context.Context, dwellerID uuid.UUID) (expedition.Expedition, error)
	Create(ctx context.Context, e expedition.Expedition) error
	SaveWithVersion(ctx context.Context, e expedition.Expedition, expectedVersion int64) error
	// Delete removes a collected expedition after its results merge back.
	Delete(ctx context.Context, id uuid.UUID) error
}

type IncidentRepository interface {
	ListActive(ctx context.Context) ([]incident.Incident, error)
	ListActiveByVault(ctx context.Context, vaultID uuid.UUID) ([]incident.Incident, error)
	Create(ctx context.Context, in incident.Incident) error
	SaveWithVersion(ctx context.Context, in incident.Incident, expectedVersion int64) error
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
