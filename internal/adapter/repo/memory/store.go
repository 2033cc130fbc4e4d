// Package memory backs the repository ports with in-process maps. Used by
// tests and the dev profile; the gorm adapter is the production store.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

type Store struct {
	mu          sync.RWMutex
	vaults      map[uuid.UUID]vault.Vault
	rooms       map[uuid.UUID]vault.Room
	dwellers    map[uuid.UUID]dweller.Dweller
	expeditions map[uuid.UUID]expedition.Expedition
	incidents   map[uuid.UUID]incident.Incident
}

func NewStore() *Store {
	return &Store{
		vaults:      make(map[uuid.UUID]vault.Vault),
		rooms:       make(map[uuid.UUID]vault.Room),
		dwellers:    make(map[uuid.UUID]dweller.Dweller),
		expeditions: make(map[uuid.UUID]expedition.Expedition),
		incidents:   make(map[uuid.UUID]incident.Incident),
	}
}

func (s *Store) SeedVault(v vault.Vault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vaults[v.ID] = v
}

func (s *Store) SeedRoom(r vault.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
}

func (s *Store) SeedDweller(d dweller.Dweller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dwellers[d.ID] = d
}

func (s *Store) SeedExpedition(e expedition.Expedition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expeditions[e.ID] = e
}

func (s *Store) SeedIncident(in incident.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents[in.ID] = in
}
