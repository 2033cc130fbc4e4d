// Package model holds the persisted row shapes. Enum fields are stored as
// raw strings and validated on decode; event and combat logs are JSONB
// blobs.
package model

import (
	"time"

	"github.com/google/uuid"
)

type Vault struct {
	ID            uuid.UUID `gorm:"column:id;primaryKey"`
	Number        int64     `gorm:"column:number"`
	Name          string    `gorm:"column:name"`
	Power         float64   `gorm:"column:power"`
	MaxPower      float64   `gorm:"column:max_power"`
	Food          float64   `gorm:"column:food"`
	MaxFood       float64   `gorm:"column:max_food"`
	Water         float64   `gorm:"column:water"`
	MaxWater      float64   `gorm:"column:max_water"`
	Caps          int       `gorm:"column:caps"`
	Stimpaks      int       `gorm:"column:stimpaks"`
	Radaway       int       `gorm:"column:radaway"`
	PopulationCap int       `gorm:"column:population_cap"`
	LastUpdate    time.Time `gorm:"column:last_update"`
	Version       int64     `gorm:"column:version"`
}

func (Vault) TableName() string { return "vaults" }

type Room struct {
	ID                   uuid.UUID `gorm:"column:id;primaryKey"`
	VaultID              uuid.UUID `gorm:"column:vault_id"`
	Type                 string    `gorm:"column:type"`
	Level                int       `gorm:"column:level"`
	X                    int       `gorm:"column:x"`
	Y                    int       `gorm:"column:y"`
	Width                int       `gorm:"column:width"`
	State                string    `gorm:"column:state"`
	Progress             float64   `gorm:"column:progress"`
	HasPower             bool      `gorm:"column:has_power"`
	LastProductionUpdate time.Time `gorm:"column:last_production_update"`
	Version              int64     `gorm:"column:version"`
}

func (Room) TableName() string { return "rooms" }

type Dweller struct {
	ID             uuid.UUID  `gorm:"column:id;primaryKey"`
	VaultID        uuid.UUID  `gorm:"column:vault_id"`
	Name           string     `gorm:"column:name"`
	Gender         string     `gorm:"column:gender"`
	Rarity         string     `gorm:"column:rarity"`
	Strength       int        `gorm:"column:strength"`
	Perception     int        `gorm:"column:perception"`
	Endurance      int        `gorm:"column:endurance"`
	Charisma       int        `gorm:"column:charisma"`
	Intelligence   int        `gorm:"column:intelligence"`
	Agility        int        `gorm:"column:agility"`
	Luck           int        `gorm:"column:luck"`
	Level          int        `gorm:"column:level"`
	Experience     int        `gorm:"column:experience"`
	CurrentHP      float64    `gorm:"column:current_hp"`
	MaxHP          float64    `gorm:"column:max_hp"`
	Radiation      float64    `gorm:"column:radiation"`
	Happiness      float64    `gorm:"column:happiness"`
	AssignedRoomID *uuid.UUID `gorm:"column:assigned_room_id"`
	Version        int64      `gorm:"column:version"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Dweller) TableName() string { return "dwellers" }

type Expedition struct {
	ID              uuid.UUID  `gorm:"column:id;primaryKey"`
	VaultID         uuid.UUID  `gorm:"column:vault_id"`
	DwellerID       uuid.UUID  `gorm:"column:dweller_id"`
	DwellerName     string     `gorm:"column:dweller_name"`
	Status          string     `gorm:"column:status"`
	StartTime       time.Time  `gorm:"column:start_time"`
	ReturnStart     *time.Time `gorm:"column:return_start"`
	CurrentHP       float64    `gorm:"column:current_hp"`
	MaxHP           float64    `gorm:"column:max_hp"`
	Radiation       float64    `gorm:"column:radiation"`
	RadImmune       bool       `gorm:"column:rad_immune"`
	Stimpaks        int        `gorm:"column:stimpaks"`
	Radaway         int        `gorm:"column:radaway"`
	Caps            int        `gorm:"column:caps"`
	Items           int        `gorm:"column:items"`
	DwellerLevel    int        `gorm:"column:dweller_level"`
	DwellerXP       int        `gorm:"column:dweller_xp"`
	Luck            int        `gorm:"column:luck"`
	Perception      int        `gorm:"column:perception"`
	Charisma        int        `gorm:"column:charisma"`
	ReturnSpeed     float64    `gorm:"column:return_speed"`
	Events          []byte     `gorm:"column:events;type:jsonb"`
	LastEventMinute int        `gorm:"column:last_event_minute"`
	Version         int64      `gorm:"column:version"`
}

func (Expedition) TableName() string { return "expeditions" }

type Incident struct {
	ID            uuid.UUID `gorm:"column:id;primaryKey"`
	VaultID       uuid.UUID `gorm:"column:vault_id"`
	RoomID        uuid.UUID `gorm:"column:room_id"`
	Type          string    `gorm:"column:type"`
	StartTime     time.Time `gorm:"column:start_time"`
	CurrentHP     int       `gorm:"column:current_hp"`
	MaxHP         int       `gorm:"column:max_hp"`
	IsActive      bool      `gorm:"column:is_active"`
	CapsStolen    int       `gorm:"column:caps_stolen"`
	SpreadRoomIDs []byte    `gorm:"column:spread_room_ids;type:jsonb"`
	CombatLog     []byte    `gorm:"column:combat_log;type:jsonb"`
	Version       int64     `gorm:"column:version"`
}

func (Incident) TableName() string { return "incidents" }
