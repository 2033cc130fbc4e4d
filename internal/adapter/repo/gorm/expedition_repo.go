package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vaultown/internal/adapter/repo/gorm/model"
	"vaultown/internal/app/ports"
	"vaultown/internal/domain/expedition"
)

type ExpeditionRepo struct {
	db *gorm.DB
}

func NewExpeditionRepo(db *gorm.DB) ExpeditionRepo {
	return ExpeditionRepo{db: db}
}

func (r ExpeditionRepo) ListActive(ctx context.Context) ([]expedition.Expedition, error) {
	var rows []model.Expedition
	err := getDBFromCtx(ctx, r.db).
		Where("status IN ?", []string{string(expedition.StatusExploring), string(expedition.StatusReturning)}).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]expedition.Expedition, 0, len(rows))
	for i := range rows {
		e, err := expeditionFromModel(&rows[i])
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r ExpeditionRepo) GetByID(ctx context.Context, id uuid.UUID) (expedition.Expedition, error) {
	var m model.Expedition
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return expedition.Expedition{}, ports.ErrNotFound
		}
		return expedition.Expedition{}, err
	}
	return expeditionFromModel(&m)
}

func (r ExpeditionRepo) GetByDweller(ctx context.Context, dwellerID uuid.UUID) (expedition.Expedition, error) {
	var m model.Expedition
	if err := getDBFromCtx(ctx, r.db).Where("dweller_id = ?", dwellerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return expedition.Expedition{}, ports.ErrNotFound
		}
		return expedition.Expedition{}, err
	}
	return expeditionFromModel(&m)
}

func (r ExpeditionRepo) Create(ctx context.Context, e expedition.Expedition) error {
	m, err := expeditionToModel(&e)
	if err != nil {
		return err
	}
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r ExpeditionRepo) SaveWithVersion(ctx context.Context, e expedition.Expedition, expectedVersion int64) error {
	m, err := expeditionToModel(&e)
	if err != nil {
		return err
	}
	res := getDBFromCtx(ctx, r.db).Model(&model.Expedition{}).
		Where("id = ? AND version = ?", e.ID, expectedVersion).
		Updates(map[string]any{
			"status":            m.Status,
			"return_start":      m.ReturnStart,
			"current_hp":        m.CurrentHP,
			"max_hp":            m.MaxHP,
			"radiation":         m.Radiation,
			"stimpaks":          m.Stimpaks,
			"radaway":           m.Radaway,
			"caps":              m.Caps,
			"items":             m.Items,
			"dweller_level":     m.DwellerLevel,
			"dweller_xp":        m.DwellerXP,
			"events":            m.Events,
			"last_event_minute": m.LastEventMinute,
			"version":           m.Version,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r ExpeditionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := getDBFromCtx(ctx, r.db).Where("id = ?", id).Delete(&model.Expedition{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func expeditionFromModel(m *model.Expedition) (expedition.Expedition, error) {
	status, ok := expedition.ParseStatus(m.Status)
	if !ok {
		return expedition.Expedition{}, fmt.Errorf("unknown expedition status %q", m.Status)
	}
	var events []expedition.Event
	if len(m.Events) > 0 {
		if err := json.Unmarshal(m.Events, &events); err != nil {
			return expedition.Expedition{}, fmt.Errorf("decode event log: %w", err)
		}
	}
	return expedition.Expedition{
		ID:              m.ID,
		VaultID:         m.VaultID,
		DwellerID:       m.DwellerID,
		DwellerName:     m.DwellerName,
		Status:          status,
		StartTime:       m.StartTime,
		ReturnStart:     m.ReturnStart,
		CurrentHP:       m.CurrentHP,
		MaxHP:           m.MaxHP,
		Radiation:       m.Radiation,
		RadImmune:       m.RadImmune,
		Stimpaks:        m.Stimpaks,
		Radaway:         m.Radaway,
		Caps:            m.Caps,
		Items:           m.Items,
		DwellerLevel:    m.DwellerLevel,
		DwellerXP:       m.DwellerXP,
		Luck:            m.Luck,
		Perception:      m.Perception,
		Charisma:        m.Charisma,
		ReturnSpeed:     m.ReturnSpeed,
		Events:          events,
		LastEventMinute: m.LastEventMinute,
		Version:         m.Version,
	}, nil
}

func expeditionToModel(e *expedition.Expedition) (model.Expedition, error) {
	events, err := json.Marshal(e.Events)
	if err != nil {
		return model.Expedition{}, fmt.Errorf("encode event log: %w", err)
	}
	return model.Expedition{
		ID:              e.ID,
		VaultID:         e.VaultID,
		DwellerID:       e.DwellerID,
		DwellerName:     e.DwellerName,
		Status:          string(e.Status),
		StartTime:       e.StartTime,
		ReturnStart:     e.ReturnStart,
		CurrentHP:       e.CurrentHP,
		MaxHP:           e.MaxHP,
		Radiation:       e.Radiation,
		RadImmune:       e.RadImmune,
		Stimpaks:        e.Stimpaks,
		Radaway:         e.Radaway,
		Caps:            e.Caps,
		Items:           e.Items,
		DwellerLevel:    e.DwellerLevel,
		DwellerXP:       e.DwellerXP,
		Luck:            e.Luck,
		Perception:      e.Perception,
		Charisma:        e.Charisma,
		ReturnSpeed:     e.ReturnSpeed,
		Events:          events,
		LastEventMinute: e.LastEventMinute,
		Version:         e.Version,
	}, nil
}
