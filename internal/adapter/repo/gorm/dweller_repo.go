package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vaultown/internal/adapter/repo/gorm/model"
	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
)

type DwellerRepo struct {
	db *gorm.DB
}

func NewDwellerRepo(db *gorm.DB) DwellerRepo {
	return DwellerRepo{db: db}
}

func (r DwellerRepo) ListByVault(ctx context.Context, vaultID uuid.UUID, filter ports.DwellerFilter) ([]dweller.Dweller, error) {
	q := getDBFromCtx(ctx, r.db).Where("vault_id = ?", vaultID)
	if filter.RoomID != nil {
		q = q.Where("assigned_room_id = ?", *filter.RoomID)
	}
	if filter.AliveOnly {
		q = q.Where("current_hp > 0")
	}
	var rows []model.Dweller
	if err := q.Order("name, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dweller.Dweller, 0, len(rows))
	for i := range rows {
		d, err := dwellerFromModel(&rows[i])
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r DwellerRepo) GetByID(ctx context.Context, id uuid.UUID) (dweller.Dweller, error) {
	var m model.Dweller
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dweller.Dweller{}, ports.ErrNotFound
		}
		return dweller.Dweller{}, err
	}
	return dwellerFromModel(&m)
}

func (r DwellerRepo) CountByVault(ctx context.Context, vaultID uuid.UUID) (int, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).Model(&model.Dweller{}).
		Where("vault_id = ?", vaultID).Count(&count).Error
	return int(count), err
}

func (r DwellerRepo) Create(ctx context.Context, d dweller.Dweller) error {
	m := dwellerToModel(&d)
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r DwellerRepo) SaveWithVersion(ctx context.Context, d dweller.Dweller, expectedVersion int64) error {
	m := dwellerToModel(&d)
	res := getDBFromCtx(ctx, r.db).Model(&model.Dweller{}).
		Where("id = ? AND version = ?", d.ID, expectedVersion).
		Updates(map[string]any{
			"name":             m.Name,
			"strength":         m.Strength,
			"perception":       m.Perception,
			"endurance":        m.Endurance,
			"charisma":         m.Charisma,
			"intelligence":     m.Intelligence,
			"agility":          m.Agility,
			"luck":             m.Luck,
			"level":            m.Level,
			"experience":       m.Experience,
			"current_hp":       m.CurrentHP,
			"max_hp":           m.MaxHP,
			"radiation":        m.Radiation,
			"happiness":        m.Happiness,
			"assigned_room_id": m.AssignedRoomID,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func dwellerFromModel(m *model.Dweller) (dweller.Dweller, error) {
	gender, ok := dweller.ParseGender(m.Gender)
	if !ok {
		return dweller.Dweller{}, fmt.Errorf("unknown gender %q", m.Gender)
	}
	rarity, ok := dweller.ParseRarity(m.Rarity)
	if !ok {
		return dweller.Dweller{}, fmt.Errorf("unknown rarity %q", m.Rarity)
	}
	return dweller.Dweller{
		ID:             m.ID,
		VaultID:        m.VaultID,
		Name:           m.Name,
		Gender:         gender,
		Rarity:         rarity,
		Stats:          dweller.NewScores(m.Strength, m.Perception, m.Endurance, m.Charisma, m.Intelligence, m.Agility, m.Luck),
		Level:          m.Level,
		Experience:     m.Experience,
		CurrentHP:      m.CurrentHP,
		MaxHP:          m.MaxHP,
		Radiation:      m.Radiation,
		Happiness:      m.Happiness,
		AssignedRoomID: m.AssignedRoomID,
		Version:        m.Version,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func dwellerToModel(d *dweller.Dweller) model.Dweller {
	return model.Dweller{
		ID:             d.ID,
		VaultID:        d.VaultID,
		Name:           d.Name,
		Gender:         string(d.Gender),
		Rarity:         string(d.Rarity),
		Strength:       d.Stats.Strength,
		Perception:     d.Stats.Perception,
		Endurance:      d.Stats.Endurance,
		Charisma:       d.Stats.Charisma,
		Intelligence:   d.Stats.Intelligence,
		Agility:        d.Stats.Agility,
		Luck:           d.Stats.Luck,
		Level:          d.Level,
		Experience:     d.Experience,
		CurrentHP:      d.CurrentHP,
		MaxHP:          d.MaxHP,
		Radiation:      d.Radiation,
		Happiness:      d.Happiness,
		AssignedRoomID: d.AssignedRoomID,
		Version:        d.Version,
		UpdatedAt:      d.UpdatedAt,
	}
}
