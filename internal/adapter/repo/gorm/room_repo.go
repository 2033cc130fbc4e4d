package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vaultown/internal/adapter/repo/gorm/model"
	"vaultown/internal/app/ports"
	"vaultown/internal/domain/vault"
)

type RoomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepo {
	return RoomRepo{db: db}
}

// ListByVault skips rows with unrecognized enum values rather than failing
// the whole query; a bad row must not halt a scheduler batch.
func (r RoomRepo) ListByVault(ctx context.Context, vaultID uuid.UUID) ([]vault.Room, error) {
	var rows []model.Room
	if err := getDBFromCtx(ctx, r.db).Where("vault_id = ?", vaultID).Order("y, x").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]vault.Room, 0, len(rows))
	for i := range rows {
		room, err := roomFromModel(&rows[i])
		if err != nil {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}

func (r RoomRepo) GetByID(ctx context.Context, id uuid.UUID) (vault.Room, error) {
	var m model.Room
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vault.Room{}, ports.ErrNotFound
		}
		return vault.Room{}, err
	}
	return roomFromModel(&m)
}

func (r RoomRepo) Create(ctx context.Context, room vault.Room) error {
	m := roomToModel(&room)
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r RoomRepo) SaveWithVersion(ctx context.Context, room vault.Room, expectedVersion int64) error {
	m := roomToModel(&room)
	res := getDBFromCtx(ctx, r.db).Model(&model.Room{}).
		Where("id = ? AND version = ?", room.ID, expectedVersion).
		Updates(map[string]any{
			"type":                   m.Type,
			"level":                  m.Level,
			"x":                      m.X,
			"y":                      m.Y,
			"width":                  m.Width,
			"state":                  m.State,
			"progress":               m.Progress,
			"has_power":              m.HasPower,
			"last_production_update": m.LastProductionUpdate,
			"version":                m.Version,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r RoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := getDBFromCtx(ctx, r.db).Where("id = ?", id).Delete(&model.Room{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func roomFromModel(m *model.Room) (vault.Room, error) {
	roomType, ok := vault.ParseRoomType(m.Type)
	if !ok {
		return vault.Room{}, fmt.Errorf("unknown room type %q", m.Type)
	}
	state, ok := vault.ParseProductionState(m.State)
	if !ok {
		return vault.Room{}, fmt.Errorf("unknown production state %q", m.State)
	}
	return vault.Room{
		ID:                   m.ID,
		VaultID:              m.VaultID,
		Type:                 roomType,
		Level:                m.Level,
		X:                    m.X,
		Y:                    m.Y,
		Width:                m.Width,
		State:                state,
		Progress:             m.Progress,
		HasPower:             m.HasPower,
		LastProductionUpdate: m.LastProductionUpdate,
		Version:              m.Version,
	}, nil
}

func roomToModel(room *vault.Room) model.Room {
	return model.Room{
		ID:                   room.ID,
		VaultID:              room.VaultID,
		Type:                 string(room.Type),
		Level:                room.Level,
		X:                    room.X,
		Y:                    room.Y,
		Width:                room.Width,
		State:                string(room.State),
		Progress:             room.Progress,
		HasPower:             room.HasPower,
		LastProductionUpdate: room.LastProductionUpdate,
		Version:              room.Version,
	}
}
