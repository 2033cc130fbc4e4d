package vaultops

import "errors"

var (
	ErrInsufficientCaps  = errors.New("not enough caps")
	ErrInvalidPlacement  = errors.New("invalid room placement")
	ErrRoomLocked        = errors.New("room type locked at current population")
	ErrRoomNotBuildable  = errors.New("room type cannot be built")
	ErrRoomFull          = errors.New("room at capacity")
	ErrMaxLevel          = errors.New("room already at max level")
	ErrCannotMerge       = errors.New("rooms cannot merge")
	ErrDwellerDown       = errors.New("dweller is down")
	ErrDwellerNotDown    = errors.New("dweller does not need revival")
	ErrPopulationCapped  = errors.New("population cap reached")
	ErrNotProductionRoom = errors.New("room does not produce")
)
