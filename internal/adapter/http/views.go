package httpadapter

import (
	"time"

	"github.com/google/uuid"

	"vaultown/internal/app/vaultview"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

type vaultView struct {
	ID            uuid.UUID `json:"id"`
	Number        int64     `json:"number"`
	Name          string    `json:"name"`
	Power         float64   `json:"power"`
	MaxPower      float64   `json:"max_power"`
	Food          float64   `json:"food"`
	MaxFood       float64   `json:"max_food"`
	Water         float64   `json:"water"`
	MaxWater      float64   `json:"max_water"`
	Caps          int       `json:"caps"`
	Stimpaks      int       `json:"stimpaks"`
	Radaway       int       `json:"radaway"`
	PopulationCap int       `json:"population_cap"`
	LastUpdate    time.Time `json:"last_update"`
}

type roomView struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Level    int       `json:"level"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Width    int       `json:"width"`
	State    string    `json:"state"`
	Progress float64   `json:"progress"`
	HasPower bool      `json:"has_power"`
	Capacity int       `json:"capacity"`
}

type dwellerView struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Gender         string     `json:"gender"`
	Rarity         string     `json:"rarity"`
	Strength       int        `json:"strength"`
	Perception     int        `json:"perception"`
	Endurance      int        `json:"endurance"`
	Charisma       int        `json:"charisma"`
	Intelligence   int        `json:"intelligence"`
	Agility        int        `json:"agility"`
	Luck           int        `json:"luck"`
	Level          int        `json:"level"`
	Experience     int        `json:"experience"`
	CurrentHP      float64    `json:"current_hp"`
	MaxHP          float64    `json:"max_hp"`
	Radiation      float64    `json:"radiation"`
	Happiness      float64    `json:"happiness"`
	AssignedRoomID *uuid.UUID `json:"assigned_room_id,omitempty"`
}

type incidentView struct {
	ID            uuid.UUID           `json:"id"`
	RoomID        uuid.UUID           `json:"room_id"`
	Type          string              `json:"type"`
	StartTime     time.Time           `json:"start_time"`
	CurrentHP     int                 `json:"current_hp"`
	MaxHP         int                 `json:"max_hp"`
	IsActive      bool                `json:"is_active"`
	CapsStolen    int                 `json:"caps_stolen"`
	SpreadRoomIDs []uuid.UUID         `json:"spread_room_ids,omitempty"`
	CombatLog     []incident.LogEntry `json:"combat_log,omitempty"`
}

type expeditionView struct {
	ID             uuid.UUID          `json:"id"`
	DwellerID      uuid.UUID          `json:"dweller_id"`
	DwellerName    string             `json:"dweller_name"`
	Status         string             `json:"status"`
	StartTime      time.Time          `json:"start_time"`
	ElapsedMinutes int                `json:"elapsed_minutes"`
	ReturnProgress float64            `json:"return_progress,omitempty"`
	CurrentHP      float64            `json:"current_hp"`
	MaxHP          float64            `json:"max_hp"`
	Radiation      float64            `json:"radiation"`
	Stimpaks       int                `json:"stimpaks"`
	Radaway        int                `json:"radaway"`
	Caps           int                `json:"caps"`
	Items          int                `json:"items"`
	Level          int                `json:"level"`
	Events         []expedition.Event `json:"events,omitempty"`
}

type overviewView struct {
	Vault       vaultView        `json:"vault"`
	Rooms       []roomView       `json:"rooms"`
	Dwellers    []dwellerView    `json:"dwellers"`
	Incidents   []incidentView   `json:"incidents"`
	Expeditions []expeditionView `json:"expeditions"`
}

func toVaultView(v *vault.Vault) vaultView {
	return vaultView{
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
	}
}

func toRoomView(r *vault.Room) roomView {
	return roomView{
		ID:       r.ID,
		Type:     string(r.Type),
		Level:    r.Level,
		X:        r.X,
		Y:        r.Y,
		Width:    r.Width,
		State:    string(r.State),
		Progress: r.Progress,
		HasPower: r.HasPower,
		Capacity: r.Capacity(),
	}
}

func toDwellerView(d *dweller.Dweller) dwellerView {
	return dwellerView{
		ID:             d.ID,
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
	}
}

func toIncidentView(in *incident.Incident) incidentView {
	return incidentView{
		ID:            in.ID,
		RoomID:        in.RoomID,
		Type:          string(in.Type),
		StartTime:     in.StartTime,
		CurrentHP:     in.CurrentHP,
		MaxHP:         in.MaxHP,
		IsActive:      in.IsActive,
		CapsStolen:    in.CapsStolen,
		SpreadRoomIDs: in.SpreadRoomIDs,
		CombatLog:     in.CombatLog,
	}
}

func toExpeditionView(e *expedition.Expedition, now time.Time) expeditionView {
	view := expeditionView{
		ID:             e.ID,
		DwellerID:      e.DwellerID,
		DwellerName:    e.DwellerName,
		Status:         string(e.Status),
		StartTime:      e.StartTime,
		ElapsedMinutes: e.ElapsedMinutes(now),
		CurrentHP:      e.CurrentHP,
		MaxHP:          e.MaxHP,
		Radiation:      e.Radiation,
		Stimpaks:       e.Stimpaks,
		Radaway:        e.Radaway,
		Caps:           e.Caps,
		Items:          e.Items,
		Level:          e.DwellerLevel,
		Events:         e.Events,
	}
	if e.Status == expedition.StatusReturning {
		view.ReturnProgress = e.ReturnProgress(now)
	}
	return view
}

func toOverviewView(ov *vaultview.Overview, now time.Time) overviewView {
	out := overviewView{
		Vault:       toVaultView(&ov.Vault),
		Rooms:       make([]roomView, 0, len(ov.Rooms)),
		Dwellers:    make([]dwellerView, 0, len(ov.Dwellers)),
		Incidents:   make([]incidentView, 0, len(ov.Incidents)),
		Expeditions: make([]expeditionView, 0, len(ov.Expeditions)),
	}
	for i := range ov.Rooms {
		out.Rooms = append(out.Rooms, toRoomView(&ov.Rooms[i]))
	}
	for i := range ov.Dwellers {
		out.Dwellers = append(out.Dwellers, toDwellerView(&ov.Dwellers[i]))
	}
	for i := range ov.Incidents {
		out.Incidents = append(out.Incidents, toIncidentView(&ov.Incidents[i]))
	}
	for i := range ov.Expeditions {
		out.Expeditions = append(out.Expeditions, toExpeditionView(&ov.Expeditions[i], now))
	}
	return out
}
