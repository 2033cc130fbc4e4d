package vaultops

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/vault"
)

// BuildRoom places a new room at (x, y), charging the vault its build cost.
func (uc UseCase) BuildRoom(ctx context.Context, vaultID uuid.UUID, roomType vault.RoomType, x, y int) (vault.Room, error) {
	var built vault.Room
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		v, err := uc.Vaults.GetByID(ctx, vaultID)
		if err != nil {
			return fmt.Errorf("get vault: %w", err)
		}
		if !roomType.Buildable() {
			return ErrRoomNotBuildable
		}
		population, err := uc.Dwellers.CountByVault(ctx, vaultID)
		if err != nil {
			return fmt.Errorf("count dwellers: %w", err)
		}
		if roomType.UnlockPopulation() > population {
			return ErrRoomLocked
		}

		existing, err := uc.Rooms.ListByVault(ctx, vaultID)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		room := vault.NewRoom(vaultID, roomType, x, y, uc.now())
		if !vault.ValidatePlacement(&room, existing) {
			return ErrInvalidPlacement
		}
		if !v.SpendCaps(room.BuildCost()) {
			return ErrInsufficientCaps
		}

		if err := uc.saveVault(ctx, &v); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}
		if err := uc.Rooms.Create(ctx, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}
		built = room
		return nil
	})
	return built, err
}

// UpgradeRoom raises a room one level, charging the upgrade cost.
func (uc UseCase) UpgradeRoom(ctx context.Context, roomID uuid.UUID) (vault.Room, error) {
	var upgraded vault.Room
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		room, err := uc.Rooms.GetByID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("get room: %w", err)
		}
		cost, ok := room.UpgradeCost()
		if !ok {
			return ErrMaxLevel
		}
		v, err := uc.Vaults.GetByID(ctx, room.VaultID)
		if err != nil {
			return fmt.Errorf("get vault: %w", err)
		}
		if !v.SpendCaps(cost) {
			return ErrInsufficientCaps
		}
		room.Upgrade()

		if err := uc.saveVault(ctx, &v); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}
		if err := uc.saveRoom(ctx, &room); err != nil {
			return fmt.Errorf("save room: %w", err)
		}
		upgraded = room
		return nil
	})
	return upgraded, err
}

// MergeRooms absorbs one room into another of the same type and level.
// Dwellers assigned to the absorbed room move to the merged one.
func (uc UseCase) MergeRooms(ctx context.Context, keepID, absorbID uuid.UUID) (vault.Room, error) {
	var merged vault.Room
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		keep, err := uc.Rooms.GetByID(ctx, keepID)
		if err != nil {
			return fmt.Errorf("get room: %w", err)
		}
		absorb, err := uc.Rooms.GetByID(ctx, absorbID)
		if err != nil {
			return fmt.Errorf("get room: %w", err)
		}
		if !keep.Merge(&absorb) {
			return ErrCannotMerge
		}

		absorbedRoom := absorb.ID
		displaced, err := uc.Dwellers.ListByVault(ctx, keep.VaultID, ports.DwellerFilter{RoomID: &absorbedRoom})
		if err != nil {
			return fmt.Errorf("list displaced dwellers: %w", err)
		}
		for i := range displaced {
			id := keep.ID
			displaced[i].AssignedRoomID = &id
			if err := uc.saveDweller(ctx, &displaced[i]); err != nil {
				return fmt.Errorf("reassign dweller: %w", err)
			}
		}

		if err := uc.saveRoom(ctx, &keep); err != nil {
			return fmt.Errorf("save room: %w", err)
		}
		if err := uc.Rooms.Delete(ctx, absorb.ID); err != nil {
			return fmt.Errorf("delete absorbed room: %w", err)
		}
		merged = keep
		return nil
	})
	return merged, err
}
