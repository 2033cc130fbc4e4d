// Package expeditionops implements the player-facing expedition operations:
// sending a dweller out, recalling early, and collecting the results.
package expeditionops

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vaultown/internal/app/ports"
	"vaultown/internal/domain/dweller"
	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/vault"
)

var (
	ErrAlreadyExploring      = errors.New("dweller already has an expedition")
	ErrDwellerDown           = errors.New("dweller is down")
	ErrInsufficientSupplies  = errors.New("vault lacks the requested supplies")
	ErrExpeditionNotFinished = errors.New("expedition is still in the field")
	ErrNotExploring          = errors.New("expedition is not exploring")
)

type UseCase struct {
	Tx          ports.TxManager
	Vaults      ports.VaultRepository
	Dwellers    ports.DwellerRepository
	Expeditions ports.ExpeditionRepository
	Now         func() time.Time
}

func (uc UseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Send launches a dweller into the wasteland carrying supplies drawn from
// the vault stockpile. The dweller is pulled off room duty; the room crew
// thins out on the next resource tick.
func (uc UseCase) Send(ctx context.Context, dwellerID uuid.UUID, stimpaks, radaway int, returnSpeed float64) (expedition.Expedition, error) {
	var launched expedition.Expedition
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := uc.Dwellers.GetByID(ctx, dwellerID)
		if err != nil {
			return fmt.Errorf("get dweller: %w", err)
		}
		if !d.Alive() {
			return ErrDwellerDown
		}
		if _, err := uc.Expeditions.GetByDweller(ctx, dwellerID); err == nil {
			return ErrAlreadyExploring
		} else if !errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("check active expedition: %w", err)
		}

		v, err := uc.Vaults.GetByID(ctx, d.VaultID)
		if err != nil {
			return fmt.Errorf("get vault: %w", err)
		}
		if stimpaks < 0 || radaway < 0 || v.Stimpaks < stimpaks || v.Radaway < radaway {
			return ErrInsufficientSupplies
		}
		v.Stimpaks -= stimpaks
		v.Radaway -= radaway

		e := expedition.Launch(&d, stimpaks, radaway, returnSpeed, uc.now())
		d.AssignedRoomID = nil

		if err := uc.saveVault(ctx, &v); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}
		if err := uc.saveDweller(ctx, &d); err != nil {
			return fmt.Errorf("save dweller: %w", err)
		}
		if err := uc.Expeditions.Create(ctx, e); err != nil {
			return fmt.Errorf("create expedition: %w", err)
		}
		launched = e
		return nil
	})
	return launched, err
}

// Recall turns an exploring dweller around immediately.
func (uc UseCase) Recall(ctx context.Context, expeditionID uuid.UUID) (expedition.Expedition, error) {
	var recalled expedition.Expedition
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := uc.Expeditions.GetByID(ctx, expeditionID)
		if err != nil {
			return fmt.Errorf("get expedition: %w", err)
		}
		if e.Status != expedition.StatusExploring {
			return ErrNotExploring
		}
		e.StartReturn(uc.now())
		if err := uc.saveExpedition(ctx, &e); err != nil {
			return fmt.Errorf("save expedition: %w", err)
		}
		recalled = e
		return nil
	})
	return recalled, err
}

// CollectResult is what the player banked from a finished expedition.
type CollectResult struct {
	Caps         int
	Items        int
	LevelsGained int
	Died         bool
	Events       []expedition.Event
}

// Collect merges a completed or dead expedition back into the vault and
// deletes the record. A survivor's field vitals and progression overwrite
// the stored dweller; a dead explorer's field trajectory is discarded and
// the dweller keeps its pre-departure vitals, so the revival cost reflects
// who they were when they left.
func (uc UseCase) Collect(ctx context.Context, expeditionID uuid.UUID) (CollectResult, error) {
	var res CollectResult
	err := uc.Tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := uc.Expeditions.GetByID(ctx, expeditionID)
		if err != nil {
			return fmt.Errorf("get expedition: %w", err)
		}
		if e.Status != expedition.StatusCompleted && e.Status != expedition.StatusDead {
			return ErrExpeditionNotFinished
		}

		v, err := uc.Vaults.GetByID(ctx, e.VaultID)
		if err != nil {
			return fmt.Errorf("get vault: %w", err)
		}
		v.AddCaps(e.Caps)
		// Unused field supplies come home with the survivor.
		if e.Status == expedition.StatusCompleted {
			v.Stimpaks += e.Stimpaks
			v.Radaway += e.Radaway
		}
		if err := uc.saveVault(ctx, &v); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}

		if e.Status == expedition.StatusCompleted {
			d, err := uc.Dwellers.GetByID(ctx, e.DwellerID)
			if err != nil {
				return fmt.Errorf("get dweller: %w", err)
			}
			res.LevelsGained = mergeProgression(&d, &e)
			if err := uc.saveDweller(ctx, &d); err != nil {
				return fmt.Errorf("save dweller: %w", err)
			}
		}

		if err := uc.Expeditions.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete expedition: %w", err)
		}
		res.Caps = e.Caps
		res.Items = e.Items
		res.Died = e.Status == expedition.StatusDead
		res.Events = e.Events
		return nil
	})
	return res, err
}

// mergeProgression writes the field trajectory back onto the dweller. Level
// gains bank their HP bonus here rather than in the field.
func mergeProgression(d *dweller.Dweller, e *expedition.Expedition) int {
	levels := e.DwellerLevel - d.Level
	if levels < 0 {
		levels = 0
	}
	d.Level = max(d.Level, e.DwellerLevel)
	d.Experience = max(d.Experience, e.DwellerXP)
	d.MaxHP += dweller.HPPerLevel(d.Stats.Endurance) * float64(levels)
	d.Radiation = e.Radiation
	d.CurrentHP = min(e.CurrentHP, d.EffectiveMaxHP())
	return levels
}

func (uc UseCase) saveVault(ctx context.Context, v *vault.Vault) error {
	expected := v.Version
	v.Version++
	return uc.Vaults.SaveWithVersion(ctx, *v, expected)
}

func (uc UseCase) saveDweller(ctx context.Context, d *dweller.Dweller) error {
	expected := d.Version
	d.Version++
	return uc.Dwellers.SaveWithVersion(ctx, *d, expected)
}

func (uc UseCase) saveExpedition(ctx context.Context, e *expedition.Expedition) error {
	expected := e.Version
	e.Version++
	return uc.Expeditions.SaveWithVersion(ctx, *e, expected)
}
