// Package vaultops implements the player-facing vault operations: creation,
// building, upgrades, merges, dweller assignment, rush, and revival. Every
// mutation goes through optimistic versioned saves; schedulers pick up the
// results on their next pass.
package vaultops

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/vault"
)

// StartingDwellers rolled into every new vault.
const StartingDwellers = 4

type UseCase struct {
	Tx        ports.TxManager
	Vaults    ports.VaultRepository
	Rooms     ports.RoomRepository
	Dwellers  ports.DwellerRepository
	Incidents ports.IncidentRepository
	Now       func() time.Time
}

func (uc UseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// CreateVaultResult is everything a fresh vault starts with.
type CreateVaultResult struct {
	Vault    vault.Vault
	Rooms    []vault.Room
	Dwellers []dweller.Dweller
}

// CreateVault provisions a vault with the standard starting layout and a
// handful of common dwellers.
func (uc UseCase) CreateVault(ctx context.Context, name string) (CreateVaultResult, error) {
	var res CreateVaultResult
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		now := uc.now()
		number, err := uc.Vaults.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("next vault number: %w", err)
		}
		v := vault.NewVault(number, name, now)
		if err := uc.Vaults.Create(ctx, v); err != nil {
			return fmt.Errorf("create vault: %w", err)
		}

		rooms := vault.StartingRooms(v.ID, now)
		for _, r := range rooms {
			if err := uc.Rooms.Create(ctx, r); err != nil {
				return fmt.Errorf("create starting room: %w", err)
			}
		}

		residents := make([]dweller.Dweller, 0, StartingDwellers)
		for i := 0; i < StartingDwellers; i++ {
			gender := dweller.RandomGender()
			d := dweller.New(v.ID, dweller.RandomName(gender), gender, dweller.RarityCommon)
			if err := uc.Dwellers.Create(ctx, d); err != nil {
				return fmt.Errorf("create starting dweller: %w", err)
			}
			residents = append(residents, d)
		}

		res = CreateVaultResult{Vault: v, Rooms: rooms, Dwellers: residents}
		return nil
	})
	return res, err
}

func (uc UseCase) saveVault(ctx context.Context, v *vault.Vault) error {
	expected := v.Version
	v.Version++
	return uc.Vaults.SaveWithVersion(ctx, *v, expected)
}

func (uc UseCase) saveRoom(ctx context.Context, r *vault.Room) error {
	expected := r.Version
	r.Version++
	return uc.Rooms.SaveWithVersion(ctx, *r, expected)
}

func (uc UseCase) saveDweller(ctx context.Context, d *dweller.Dweller) error {
	expected := d.Version
	d.Version++
	return uc.Dwellers.SaveWithVersion(ctx, *d, expected)
}

func (uc UseCase) aliveCrew(ctx context.Context, vaultID, roomID uuid.UUID) (vault.Crew, error) {
	crew, err := uc.Dwellers.ListByVault(ctx, vaultID, ports.DwellerFilter{
		RoomID:    &roomID,
		AliveOnly: true,
	})
	if err != nil {
		return nil, err
	}
	return vault.Crew(crew), nil
}
