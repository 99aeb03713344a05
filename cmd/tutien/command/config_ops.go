package command

import (
	"log/slog"

	"github.com/pixil98/go-errors"

	"github.com/tutien/tutien-server/internal/ops"
	"github.com/tutien/tutien-server/internal/rooms"
)

// OpsConfig enables the operational HTTP endpoints. A zero port leaves
// them off.
type OpsConfig struct {
	Port uint16 `json:"port,omitempty"`
}

func (c *OpsConfig) validate() error {
	return errors.NewErrorList().Err()
}

func (c *OpsConfig) BuildServer(sessions ops.SessionCounter, store ops.StoreCounter, registry *rooms.Registry, logger *slog.Logger) *ops.Server {
	return ops.NewServer(c.Port, sessions, store, registry, logger)
}
