package gormrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vaultown/internal/adapter/repo/gorm/model"
	"vaultown/internal/app/ports"
	"vaultown/internal/domain/vault"
)

type VaultRepo struct {
	db *gorm.DB
}

func NewVaultRepo(db *gorm.DB) VaultRepo {
	return VaultRepo{db: db}
}

func (r VaultRepo) List(ctx context.Context) ([]vault.Vault, error) {
	var rows []model.Vault
	if err := getDBFromCtx(ctx, r.db).Order("number").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]vault.Vault, 0, len(rows))
	for i := range rows {
		out = append(out, vaultFromModel(&rows[i]))
	}
	return out, nil
}

func (r VaultRepo) GetByID(ctx context.Context, id uuid.UUID) (vault.Vault, error) {
	var m model.Vault
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vault.Vault{}, ports.ErrNotFound
		}
		return vault.Vault{}, err
	}
	return vaultFromModel(&m), nil
}

func (r VaultRepo) GetByNumber(ctx context.Context, number int64) (vault.Vault, error) {
	var m model.Vault
	if err := getDBFromCtx(ctx, r.db).Where("number = ?", number).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vault.Vault{}, ports.ErrNotFound
		}
		return vault.Vault{}, err
	}
	return vaultFromModel(&m), nil
}

func (r VaultRepo) Create(ctx context.Context, v vault.Vault) error {
	m := vaultToModel(&v)
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r VaultRepo) SaveWithVersion(ctx context.Context, v vault.Vault, expectedVersion int64) error {
	m := vaultToModel(&v)
	res := getDBFromCtx(ctx, r.db).Model(&model.Vault{}).
		Where("id = ? AND version = ?", v.ID, expectedVersion).
		Updates(map[string]any{
			"power":          m.Power,
			"max_power":      m.MaxPower,
			"food":           m.Food,
			"max_food":       m.MaxFood,
			"water":          m.Water,
			"max_water":      m.MaxWater,
			"caps":           m.Caps,
			"stimpaks":       m.Stimpaks,
			"radaway":        m.Radaway,
			"population_cap": m.PopulationCap,
			"last_update":    m.LastUpdate,
			"version":        m.Version,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r VaultRepo) NextNumber(ctx context.Context) (int64, error) {
	var maxNumber int64
	err := getDBFromCtx(ctx, r.db).Model(&model.Vault{}).
		Select("COALESCE(MAX(number), 100)").Scan(&maxNumber).Error
	if err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

func vaultFromModel(m *model.Vault) vault.Vault {
	return vault.Vault{
		ID:            m.ID,
		Number:        m.Number,
		Name:          m.Name,
		Power:         m.Power,
		MaxPower:      m.MaxPower,
		Food:          m.Food,
		MaxFood:       m.MaxFood,
		Water:         m.Water,
		MaxWater:      m.MaxWater,
		Caps:          m.Caps,
		Stimpaks:      m.Stimpaks,
		Radaway:       m.Radaway,
		PopulationCap: m.PopulationCap,
		LastUpdate:    m.LastUpdate,
		Version:       m.Version,
	}
}

func vaultToModel(v *vault.Vault) model.Vault {
	return model.Vault{
		ID:            v.ID,
		Number:        v.Number,
		Name:          v.Name,
		Power:         v.Power,
		MaxPower:      v.MaxPower,
		Food:          v.Food,
		MaxFood:       v.MaxFood,
		Water:         v.Water,
		MaxWater:      v.MaxWater,
		Caps:          v.Caps,
		Stimpaks:      v.Stimpaks,
		Radaway:       v.Radaway,
		PopulationCap: v.PopulationCap,
		LastUpdate:    v.LastUpdate,
		Version:       v.Version,
	}
}
