package vaultops

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/incident"
	"vaultown/internal/domain/vault"
)

// RushResult reports how a rush attempt resolved. Incident is set only on
// failure.
type RushResult struct {
	Success        bool
	FailurePercent float64
	CapsReward     int
	XPPerDweller   int
	Incident       *incident.Incident
}

// RushRoom attempts to force a production cycle. recentRushCount comes from
// the caller's session state; repeated rushes push the failure chance up.
// On success the crew collects caps and XP and the room's cycle completes
// immediately. On failure an incident spawns in the rushed room.
func (uc UseCase) RushRoom(ctx context.Context, roomID uuid.UUID, recentRushCount int) (RushResult, error) {
	var res RushResult
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		room, err := uc.Rooms.GetByID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("get room: %w", err)
		}
		if !room.Type.IsProduction() {
			return ErrNotProductionRoom
		}
		v, err := uc.Vaults.GetByID(ctx, room.VaultID)
		if err != nil {
			return fmt.Errorf("get vault: %w", err)
		}
		crew, err := uc.aliveCrew(ctx, room.VaultID, room.ID)
		if err != nil {
			return fmt.Errorf("list crew: %w", err)
		}

		attempt := vault.RushAttempt{Crew: crew, RecentRushCount: recentRushCount}
		res.FailurePercent = attempt.FailurePercent()
		outcome := attempt.Resolve()

		if !outcome.Success {
			in, err := uc.spawnRushIncident(ctx, &v, &room)
			if err != nil {
				return err
			}
			res.Incident = in
			return nil
		}

		res.Success = true
		res.CapsReward = outcome.CapsReward
		res.XPPerDweller = outcome.XPReward / max(1, len(crew))

		// The rushed cycle completes on the spot.
		amount := room.BaseProductionPerCycle()
		if room.Type.ProducesFoodAndWater() {
			v.Add(vault.ResourceFood, amount/2)
			v.Add(vault.ResourceWater, amount/2)
		} else if produces, ok := room.Type.Produces(); ok {
			v.Add(produces, amount)
		}
		v.AddCaps(outcome.CapsReward)
		if err := uc.saveVault(ctx, &v); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}

		for i := range crew {
			d := crew[i]
			d.AddExperience(res.XPPerDweller)
			if err := uc.saveDweller(ctx, &d); err != nil {
				return fmt.Errorf("save dweller: %w", err)
			}
		}
		return nil
	})
	return res, err
}

// spawnRushIncident creates the penalty incident for a failed rush. Raiders
// only show up when the rushed room touches the vault door.
func (uc UseCase) spawnRushIncident(ctx context.Context, v *vault.Vault, room *vault.Room) (*incident.Incident, error) {
	population, err := uc.Dwellers.CountByVault(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("count dwellers: %w", err)
	}
	candidates := incident.RushFailureTypes(population)

	nearDoor, err := uc.roomTouchesDoor(ctx, room)
	if err != nil {
		return nil, err
	}
	if !nearDoor {
		filtered := candidates[:0:0]
		for _, t := range candidates {
			if t != incident.TypeRaider {
				filtered = append(filtered, t)
			}
		}
		candidates = filtered
	}

	t, ok := incident.PickWeighted(candidates)
	if !ok {
		return nil, nil
	}

	residents, err := uc.Dwellers.ListByVault(ctx, v.ID, ports.DwellerFilter{})
	if err != nil {
		return nil, fmt.Errorf("list dwellers: %w", err)
	}
	avg := 1
	if len(residents) > 0 {
		sum := 0
		for i := range residents {
			sum += residents[i].Level
		}
		avg = sum / len(residents)
	}

	in := incident.New(v.ID, room.ID, t, room.Level, room.Width, avg, uc.now())
	if err := uc.Incidents.Create(ctx, in); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}
	return &in, nil
}

func (uc UseCase) roomTouchesDoor(ctx context.Context, room *vault.Room) (bool, error) {
	rooms, err := uc.Rooms.ListByVault(ctx, room.VaultID)
	if err != nil {
		return false, fmt.Errorf("list rooms: %w", err)
	}
	for i := range rooms {
		if rooms[i].Type == vault.RoomVaultDoor && room.AdjacentTo(&rooms[i]) {
			return true, nil
		}
	}
	return false, nil
}
