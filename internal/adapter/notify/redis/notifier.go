// Package redis publishes game events over Redis pub/sub so interested
// frontends can subscribe per vault. Publishing is fire-and-forget: a
// failed publish is logged and dropped, it never blocks a scheduler.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vaultown/internal/domain/expedition"
	"vaultown/internal/domain/incident"
)

const publishTimeout = 2 * time.Second

// Event is the wire payload published on a vault's channel.
type Event struct {
	Kind      string    `json:"kind"`
	VaultID   uuid.UUID `json:"vault_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

type Notifier struct {
	rdb    *goredis.Client
	prefix string
	log    *zap.Logger
}

// NewNotifier connects to Redis and verifies the connection with a ping.
func NewNotifier(addr, password string, db int, log *zap.Logger) (*Notifier, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Notifier{
		rdb:    rdb,
		prefix: "vaultown:events",
		log:    log.Named("notify"),
	}, nil
}

func (n *Notifier) NotifyIncidentSpawned(vaultID uuid.UUID, in incident.Incident) {
	n.publish(vaultID, Event{
		Kind:      "incident_spawned",
		VaultID:   vaultID,
		Timestamp: time.Now(),
		Payload: map[string]any{
			"incident_id": in.ID,
			"room_id":     in.RoomID,
			"type":        string(in.Type),
			"max_hp":      in.MaxHP,
		},
	})
}

func (n *Notifier) NotifyExplorerReturned(vaultID uuid.UUID, e expedition.Expedition) {
	n.publish(vaultID, Event{
		Kind:      "explorer_returned",
		VaultID:   vaultID,
		Timestamp: time.Now(),
		Payload: map[string]any{
			"expedition_id": e.ID,
			"dweller_id":    e.DwellerID,
			"dweller_name":  e.DwellerName,
			"caps":          e.Caps,
			"items":         e.Items,
		},
	})
}

func (n *Notifier) NotifyExplorerDied(vaultID uuid.UUID, e expedition.Expedition) {
	n.publish(vaultID, Event{
		Kind:      "explorer_died",
		VaultID:   vaultID,
		Timestamp: time.Now(),
		Payload: map[string]any{
			"expedition_id": e.ID,
			"dweller_id":    e.DwellerID,
			"dweller_name":  e.DwellerName,
		},
	})
}

func (n *Notifier) publish(vaultID uuid.UUID, ev Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		n.log.Warn("encode event", zap.String("kind", ev.Kind), zap.Error(err))
		return
	}
	channel := fmt.Sprintf("%s:%s", n.prefix, vaultID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := n.rdb.Publish(ctx, channel, raw).Err(); err != nil {
			n.log.Debug("publish failed",
				zap.String("channel", channel),
				zap.String("kind", ev.Kind),
				zap.Error(err))
		}
	}()
}

func (n *Notifier) Close() error {
	return n.rdb.Close()
}
