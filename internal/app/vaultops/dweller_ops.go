package vaultops

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
)

// AssignDweller moves a dweller into a room, or pulls them off duty when
// roomID is nil. Room capacity is enforced.
func (uc UseCase) AssignDweller(ctx context.Context, dwellerID uuid.UUID, roomID *uuid.UUID) (dweller.Dweller, error) {
	var assigned dweller.Dweller
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := uc.Dwellers.GetByID(ctx, dwellerID)
		if err != nil {
			return fmt.Errorf("get dweller: %w", err)
		}
		if !d.Alive() {
			return ErrDwellerDown
		}

		if roomID != nil {
			room, err := uc.Rooms.GetByID(ctx, *roomID)
			if err != nil {
				return fmt.Errorf("get room: %w", err)
			}
			occupants, err := uc.Dwellers.ListByVault(ctx, d.VaultID, ports.DwellerFilter{RoomID: roomID})
			if err != nil {
				return fmt.Errorf("list occupants: %w", err)
			}
			if len(occupants) >= room.Capacity() {
				return ErrRoomFull
			}
			id := *roomID
			d.AssignedRoomID = &id
		} else {
			d.AssignedRoomID = nil
		}

		if err := uc.saveDweller(ctx, &d); err != nil {
			return fmt.Errorf("save dweller: %w", err)
		}
		assigned = d
		return nil
	})
	return assigned, err
}

// ReviveDweller pays the level-scaled revival cost and stands the dweller
// back up at full effective HP.
func (uc UseCase) ReviveDweller(ctx context.Context, dwellerID uuid.UUID) (dweller.Dweller, error) {
	var revived dweller.Dweller
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := uc.Dwellers.GetByID(ctx, dwellerID)
		if err != nil {
			return fmt.Errorf("get dweller: %w", err)
		}
		if d.Alive() {
			return ErrDwellerNotDown
		}
		v, err := uc.Vaults.GetByID(ctx, d.VaultID)
		if err != nil {
			return fmt.Errorf("get vault: %w", err)
		}
		if !v.SpendCaps(d.RevivalCost()) {
			return ErrInsufficientCaps
		}
		d.Revive()

		if err := uc.saveVault(ctx, &v); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}
		if err := uc.saveDweller(ctx, &d); err != nil {
			return fmt.Errorf("save dweller: %w", err)
		}
		revived = d
		return nil
	})
	return revived, err
}
