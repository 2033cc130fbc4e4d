package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vaultown/internal/adapter/repo/gorm/model"
	"vaultown/internal/app/ports"
	"vaultown/internal/domain/incident"
)

type IncidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) IncidentRepo {
	return IncidentRepo{db: db}
}

func (r IncidentRepo) ListActive(ctx context.Context) ([]incident.Incident, error) {
	var rows []model.Incident
	err := getDBFromCtx(ctx, r.db).Where("is_active = ?", true).Order("start_time").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return incidentsFromModels(rows), nil
}

func (r IncidentRepo) ListActiveByVault(ctx context.Context, vaultID uuid.UUID) ([]incident.Incident, error) {
	var rows []model.Incident
	err := getDBFromCtx(ctx, r.db).
		Where("is_active = ? AND vault_id = ?", true, vaultID).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return incidentsFromModels(rows), nil
}

func (r IncidentRepo) Create(ctx context.Context, in incident.Incident) error {
	m, err := incidentToModel(&in)
	if err != nil {
		return err
	}
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r IncidentRepo) SaveWithVersion(ctx context.Context, in incident.Incident, expectedVersion int64) error {
	m, err := incidentToModel(&in)
	if err != nil {
		return err
	}
	res := getDBFromCtx(ctx, r.db).Model(&model.Incident{}).
		Where("id = ? AND version = ?", in.ID, expectedVersion).
		Updates(map[string]any{
			"current_hp":      m.CurrentHP,
			"max_hp":          m.MaxHP,
			"is_active":       m.IsActive,
			"caps_stolen":     m.CapsStolen,
			"spread_room_ids": m.SpreadRoomIDs,
			"combat_log":      m.CombatLog,
			"version":         m.Version,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func incidentsFromModels(rows []model.Incident) []incident.Incident {
	out := make([]incident.Incident, 0, len(rows))
	for i := range rows {
		in, err := incidentFromModel(&rows[i])
		if err != nil {
			continue
		}
		out = append(out, in)
	}
	return out
}

func incidentFromModel(m *model.Incident) (incident.Incident, error) {
	t, ok := incident.ParseType(m.Type)
	if !ok {
		return incident.Incident{}, fmt.Errorf("unknown incident type %q", m.Type)
	}
	var spread []uuid.UUID
	if len(m.SpreadRoomIDs) > 0 {
		if err := json.Unmarshal(m.SpreadRoomIDs, &spread); err != nil {
			return incident.Incident{}, fmt.Errorf("decode spread rooms: %w", err)
		}
	}
	var combatLog []incident.LogEntry
	if len(m.CombatLog) > 0 {
		if err := json.Unmarshal(m.CombatLog, &combatLog); err != nil {
			return incident.Incident{}, fmt.Errorf("decode combat log: %w", err)
		}
	}
	return incident.Incident{
		ID:            m.ID,
		VaultID:       m.VaultID,
		RoomID:        m.RoomID,
		Type:          t,
		StartTime:     m.StartTime,
		CurrentHP:     m.CurrentHP,
		MaxHP:         m.MaxHP,
		IsActive:      m.IsActive,
		CapsStolen:    m.CapsStolen,
		SpreadRoomIDs: spread,
		CombatLog:     combatLog,
		Version:       m.Version,
	}, nil
}

func incidentToModel(in *incident.Incident) (model.Incident, error) {
	spread, err := json.Marshal(in.SpreadRoomIDs)
	if err != nil {
		return model.Incident{}, fmt.Errorf("encode spread rooms: %w", err)
	}
	combatLog, err := json.Marshal(in.CombatLog)
	if err != nil {
		return model.Incident{}, fmt.Errorf("encode combat log: %w", err)
	}
	return model.Incident{
		ID:            in.ID,
		VaultID:       in.VaultID,
		RoomID:        in.RoomID,
		Type:          string(in.Type),
		StartTime:     in.StartTime,
		CurrentHP:     in.CurrentHP,
		MaxHP:         in.MaxHP,
		IsActive:      in.IsActive,
		CapsStolen:    in.CapsStolen,
		SpreadRoomIDs: spread,
		CombatLog:     combatLog,
		Version:       in.Version,
	}, nil
}
