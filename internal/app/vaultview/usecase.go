// Package vaultview serves the read side of the API: assembled snapshots of
// a vault and its population without touching any state.
package vaultview

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

type UseCase struct {
	Vaults      ports.VaultRepository
	Rooms       ports.RoomRepository
	Dwellers    ports.DwellerRepository
	Expeditions ports.ExpeditionRepository
	Incidents   ports.IncidentRepository
}

// Overview is everything a client needs to render a vault.
type Overview struct {
	Vault       vault.Vault
	Rooms       []vault.Room
	Dwellers    []dweller.Dweller
	Incidents   []incident.Incident
	Expeditions []expedition.Expedition
}

func (uc UseCase) Overview(ctx context.Context, vaultID uuid.UUID) (Overview, error) {
	v, err := uc.Vaults.GetByID(ctx, vaultID)
	if err != nil {
		return Overview{}, fmt.Errorf("get vault: %w", err)
	}
	rooms, err := uc.Rooms.ListByVault(ctx, vaultID)
	if err != nil {
		return Overview{}, fmt.Errorf("list rooms: %w", err)
	}
	dwellers, err := uc.Dwellers.ListByVault(ctx, vaultID, ports.DwellerFilter{})
	if err != nil {
		return Overview{}, fmt.Errorf("list dwellers: %w", err)
	}
	incidents, err := uc.Incidents.ListActiveByVault(ctx, vaultID)
	if err != nil {
		return Overview{}, fmt.Errorf("list incidents: %w", err)
	}
	expeditions, err := uc.activeExpeditions(ctx, vaultID)
	if err != nil {
		return Overview{}, fmt.Errorf("list expeditions: %w", err)
	}
	return Overview{
		Vault:       v,
		Rooms:       rooms,
		Dwellers:    dwellers,
		Incidents:   incidents,
		Expeditions: expeditions,
	}, nil
}

// Expedition returns a single trip, any status.
func (uc UseCase) Expedition(ctx context.Context, id uuid.UUID) (expedition.Expedition, error) {
	return uc.Expeditions.GetByID(ctx, id)
}

// ByNumber resolves a vault by its door number.
func (uc UseCase) ByNumber(ctx context.Context, number int64) (vault.Vault, error) {
	return uc.Vaults.GetByNumber(ctx, number)
}

func (uc UseCase) activeExpeditions(ctx context.Context, vaultID uuid.UUID) ([]expedition.Expedition, error) {
	all, err := uc.Expeditions.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for i := range all {
		if all[i].VaultID == vaultID {
			out = append(out, all[i])
		}
	}
	return out, nil
}
