// Package httpadapter exposes the player-facing JSON API over hertz. Every
// route resolves the acting player from the X-Player-ID header; the active
// vault binding lives in the session cache, not the store.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"vaultown/internal/app/expeditionops"
	"vaultown/internal/app/ports"
	"vaultown/internal/app/session"
	"vaultown/internal/app/vaultops"
	"vaultown/internal/app/vaultview"
	"vaultown/internal/domain/vault"
)

const playerIDHeader = "X-Player-ID"

var ErrMissingPlayerHeader = errors.New("missing x-player-id header")
var ErrNoActiveVault = errors.New("no vault bound to session")

type Handler struct {
	VaultUC      vaultops.UseCase
	ExpeditionUC expeditionops.UseCase
	ViewUC       vaultview.UseCase
	Sessions     *session.Cache
	Metrics      metricsSnapshotProvider

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/vaults", h.createVault)
	api.POST("/vaults/:number/enter", h.enterVault)
	api.GET("/vault", h.overview)

	api.POST("/rooms", h.buildRoom)
	api.POST("/rooms/merge", h.mergeRooms)
	api.POST("/rooms/:id/upgrade", h.upgradeRoom)
	api.POST("/rooms/:id/rush", h.rushRoom)

	api.POST("/dwellers/:id/assign", h.assignDweller)
	api.POST("/dwellers/:id/revive", h.reviveDweller)

	api.POST("/expeditions", h.sendExpedition)
	api.GET("/expeditions/:id", h.expeditionStatus)
	api.POST("/expeditions/:id/recall", h.recallExpedition)
	api.POST("/expeditions/:id/collect", h.collectExpedition)

	s.GET("/ops/metrics", h.metrics)
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type createVaultRequest struct {
	Name string `json:"name"`
}

func (h Handler) createVault(c context.Context, ctx *app.RequestContext) {
	player, err := h.requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body createVaultRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	res, err := h.VaultUC.CreateVault(c, body.Name)
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.Sessions.BindVault(player, res.Vault.ID)

	out := overviewView{
		Vault:    toVaultView(&res.Vault),
		Rooms:    make([]roomView, 0, len(res.Rooms)),
		Dwellers: make([]dwellerView, 0, len(res.Dwellers)),
	}
	for i := range res.Rooms {
		out.Rooms = append(out.Rooms, toRoomView(&res.Rooms[i]))
	}
	for i := range res.Dwellers {
		out.Dwellers = append(out.Dwellers, toDwellerView(&res.Dwellers[i]))
	}
	ctx.JSON(consts.StatusCreated, out)
}

func (h Handler) enterVault(c context.Context, ctx *app.RequestContext) {
	player, err := h.requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	number, err := strconv.ParseInt(string(ctx.Param("number")), 10, 64)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_vault_number", "invalid vault number")
		return
	}

	v, err := h.ViewUC.ByNumber(c, number)
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.Sessions.BindVault(player, v.ID)
	ctx.JSON(consts.StatusOK, toVaultView(&v))
}

func (h Handler) overview(c context.Context, ctx *app.RequestContext) {
	vaultID, err := h.requireActiveVault(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ov, err := h.ViewUC.Overview(c, vaultID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toOverviewView(&ov, h.now()))
}

type buildRoomRequest struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (h Handler) buildRoom(c context.Context, ctx *app.RequestContext) {
	vaultID, err := h.requireActiveVault(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body buildRoomRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	roomType, ok := vault.ParseRoomType(body.Type)
	if !ok {
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_room_type", "unknown room type")
		return
	}

	room, err := h.VaultUC.BuildRoom(c, vaultID, roomType, body.X, body.Y)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, toRoomView(&room))
}

func (h Handler) upgradeRoom(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	roomID, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	room, err := h.VaultUC.UpgradeRoom(c, roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toRoomView(&room))
}

type mergeRoomsRequest struct {
	KeepID   uuid.UUID `json:"keep_id"`
	AbsorbID uuid.UUID `json:"absorb_id"`
}

func (h Handler) mergeRooms(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body mergeRoomsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	room, err := h.VaultUC.MergeRooms(c, body.KeepID, body.AbsorbID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toRoomView(&room))
}

type rushResultView struct {
	Success        bool          `json:"success"`
	FailurePercent float64       `json:"failure_percent"`
	CapsReward     int           `json:"caps_reward,omitempty"`
	XPPerDweller   int           `json:"xp_per_dweller,omitempty"`
	Incident       *incidentView `json:"incident,omitempty"`
}

func (h Handler) rushRoom(c context.Context, ctx *app.RequestContext) {
	player, err := h.requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if _, ok := h.Sessions.ActiveVault(player); !ok {
		writeError(ctx, ErrNoActiveVault)
		return
	}
	roomID, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	// The recorded attempt counts against this rush's own failure chance
	// only on the next try.
	recent := h.Sessions.RecordRush(player, roomID) - 1

	res, err := h.VaultUC.RushRoom(c, roomID, recent)
	if err != nil {
		writeError(ctx, err)
		return
	}
	view := rushResultView{
		Success:        res.Success,
		FailurePercent: res.FailurePercent,
		CapsReward:     res.CapsReward,
		XPPerDweller:   res.XPPerDweller,
	}
	if res.Incident != nil {
		in := toIncidentView(res.Incident)
		view.Incident = &in
	}
	ctx.JSON(consts.StatusOK, view)
}

type assignDwellerRequest struct {
	RoomID *uuid.UUID `json:"room_id"`
}

func (h Handler) assignDweller(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	dwellerID, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body assignDwellerRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	d, err := h.VaultUC.AssignDweller(c, dwellerID, body.RoomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toDwellerView(&d))
}

func (h Handler) reviveDweller(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	dwellerID, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	d, err := h.VaultUC.ReviveDweller(c, dwellerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toDwellerView(&d))
}

type sendExpeditionRequest struct {
	DwellerID   uuid.UUID `json:"dweller_id"`
	Stimpaks    int       `json:"stimpaks"`
	Radaway     int       `json:"radaway"`
	ReturnSpeed float64   `json:"return_speed"`
}

func (h Handler) sendExpedition(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body sendExpeditionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	e, err := h.ExpeditionUC.Send(c, body.DwellerID, body.Stimpaks, body.Radaway, body.ReturnSpeed)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, toExpeditionView(&e, h.now()))
}

func (h Handler) expeditionStatus(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	id, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	e, err := h.ViewUC.Expedition(c, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toExpeditionView(&e, h.now()))
}

func (h Handler) recallExpedition(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	id, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	e, err := h.ExpeditionUC.Recall(c, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toExpeditionView(&e, h.now()))
}

func (h Handler) collectExpedition(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireActiveVault(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	id, err := parseIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	res, err := h.ExpeditionUC.Collect(c, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"caps":          res.Caps,
		"items":         res.Items,
		"levels_gained": res.LevelsGained,
		"died":          res.Died,
		"events":        res.Events,
	})
}

type metricsSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) metrics(_ context.Context, ctx *app.RequestContext) {
	if h.Metrics == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "metrics recorder not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.Metrics.SnapshotAny())
}

func (h Handler) requirePlayer(ctx *app.RequestContext) (string, error) {
	player := string(ctx.GetHeader(playerIDHeader))
	if player == "" {
		return "", ErrMissingPlayerHeader
	}
	return player, nil
}

func (h Handler) requireActiveVault(ctx *app.RequestContext) (uuid.UUID, error) {
	player, err := h.requirePlayer(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	vaultID, ok := h.Sessions.ActiveVault(player)
	if !ok {
		return uuid.Nil, ErrNoActiveVault
	}
	return vaultID, nil
}

func parseIDParam(ctx *app.RequestContext) (uuid.UUID, error) {
	id, err := uuid.Parse(string(ctx.Param("id")))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

var errInvalidID = errors.New("invalid id")

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, ErrNoActiveVault):
		writeErrorBody(ctx, consts.StatusConflict, "no_active_vault", err.Error())
	case errors.Is(err, errInvalidID):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_id", err.Error())
	case errors.Is(err, vaultops.ErrInsufficientCaps):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_caps", err.Error())
	case errors.Is(err, vaultops.ErrInvalidPlacement):
		writeErrorBody(ctx, consts.StatusConflict, "invalid_placement", err.Error())
	case errors.Is(err, vaultops.ErrRoomLocked):
		writeErrorBody(ctx, consts.StatusConflict, "room_locked", err.Error())
	case errors.Is(err, vaultops.ErrRoomNotBuildable):
		writeErrorBody(ctx, consts.StatusBadRequest, "room_not_buildable", err.Error())
	case errors.Is(err, vaultops.ErrRoomFull):
		writeErrorBody(ctx, consts.StatusConflict, "room_full", err.Error())
	case errors.Is(err, vaultops.ErrMaxLevel):
		writeErrorBody(ctx, consts.StatusConflict, "max_level", err.Error())
	case errors.Is(err, vaultops.ErrCannotMerge):
		writeErrorBody(ctx, consts.StatusConflict, "cannot_merge", err.Error())
	case errors.Is(err, vaultops.ErrDwellerDown), errors.Is(err, expeditionops.ErrDwellerDown):
		writeErrorBody(ctx, consts.StatusConflict, "dweller_down", err.Error())
	case errors.Is(err, vaultops.ErrDwellerNotDown):
		writeErrorBody(ctx, consts.StatusConflict, "dweller_not_down", err.Error())
	case errors.Is(err, vaultops.ErrPopulationCapped):
		writeErrorBody(ctx, consts.StatusConflict, "population_capped", err.Error())
	case errors.Is(err, vaultops.ErrNotProductionRoom):
		writeErrorBody(ctx, consts.StatusBadRequest, "not_production_room", err.Error())
	case errors.Is(err, expeditionops.ErrAlreadyExploring):
		writeErrorBody(ctx, consts.StatusConflict, "already_exploring", err.Error())
	case errors.Is(err, expeditionops.ErrInsufficientSupplies):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_supplies", err.Error())
	case errors.Is(err, expeditionops.ErrExpeditionNotFinished):
		writeErrorBody(ctx, consts.StatusConflict, "expedition_not_finished", err.Error())
	case errors.Is(err, expeditionops.ErrNotExploring):
		writeErrorBody(ctx, consts.StatusConflict, "not_exploring", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
