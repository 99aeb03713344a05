package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/tutien/tutien-server/internal/rooms"
	"github.com/tutien/tutien-server/internal/rules"
	"github.com/tutien/tutien-server/internal/session"
)

type SessionConfig struct {
	MaxConnections    int    `json:"max_connections,omitempty"`
	MaxNameLength     int    `json:"max_name_length,omitempty"`
	MaxChatLength     int    `json:"max_chat_length,omitempty"`
	IdleTimeout       string `json:"idle_timeout,omitempty"`
	EvictionGrace     string `json:"eviction_grace,omitempty"`
	PersistInterval   string `json:"persist_interval,omitempty"`
	MoveInterval      string `json:"move_persist_interval,omitempty"`
	RoomIdleCutoff    string `json:"room_idle_cutoff,omitempty"`
	RoomCapacity      int    `json:"room_capacity,omitempty"`
	InventoryCapacity int    `json:"inventory_capacity,omitempty"`
	CultivateCooldown string `json:"cultivate_cooldown,omitempty"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	for name, val := range map[string]string{
		"idle_timeout":          c.IdleTimeout,
		"eviction_grace":        c.EvictionGrace,
		"persist_interval":      c.PersistInterval,
		"move_persist_interval": c.MoveInterval,
		"room_idle_cutoff":      c.RoomIdleCutoff,
		"cultivate_cooldown":    c.CultivateCooldown,
	} {
		if val == "" {
			continue
		}
		if _, err := time.ParseDuration(val); err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
		}
	}

	for name, val := range map[string]int{
		"max_connections":    c.MaxConnections,
		"max_name_length":    c.MaxNameLength,
		"max_chat_length":    c.MaxChatLength,
		"room_capacity":      c.RoomCapacity,
		"inventory_capacity": c.InventoryCapacity,
	} {
		if val < 0 {
			el.Add(fmt.Errorf("%s must not be negative", name))
		}
	}

	return el.Err()
}

func (c *SessionConfig) BuildRegistry() *rooms.Registry {
	var opts []rooms.RegistryOpt
	if c.RoomCapacity > 0 {
		opts = append(opts, rooms.WithDefaultCapacity(c.RoomCapacity))
	}
	return rooms.NewRegistry(opts...)
}

func (c *SessionConfig) BuildProcessor() *rules.Processor {
	var opts []rules.ProcessorOpt
	if c.InventoryCapacity > 0 {
		opts = append(opts, rules.WithInventoryCapacity(c.InventoryCapacity))
	}
	if c.CultivateCooldown != "" {
		if d, err := time.ParseDuration(c.CultivateCooldown); err == nil {
			opts = append(opts, rules.WithCultivateCooldown(d))
		}
	}
	return rules.NewProcessor(rules.DefaultCatalog(), opts...)
}

func (c *SessionConfig) BuildCoordinator(store session.Store, bcast session.Broadcaster, registry *rooms.Registry, processor *rules.Processor, logger *slog.Logger) *session.Coordinator {
	var opts []session.CoordinatorOpt
	if c.MaxConnections > 0 {
		opts = append(opts, session.WithMaxConnections(c.MaxConnections))
	}
	if c.MaxNameLength > 0 {
		opts = append(opts, session.WithMaxNameLength(c.MaxNameLength))
	}
	if c.MaxChatLength > 0 {
		opts = append(opts, session.WithMaxChatLength(c.MaxChatLength))
	}
	for _, d := range []struct {
		val string
		opt func(time.Duration) session.CoordinatorOpt
	}{
		{c.IdleTimeout, session.WithIdleTimeout},
		{c.EvictionGrace, session.WithEvictionGrace},
		{c.PersistInterval, session.WithPersistInterval},
		{c.MoveInterval, session.WithMoveInterval},
		{c.RoomIdleCutoff, session.WithRoomIdleCutoff},
	} {
		if d.val == "" {
			continue
		}
		if parsed, err := time.ParseDuration(d.val); err == nil {
			opts = append(opts, d.opt(parsed))
		}
	}
	return session.NewCoordinator(store, bcast, registry, processor, logger, opts...)
}
