package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/tutien/tutien-server/internal/transport"
)

type ListenerConfig struct {
	Port         uint16 `json:"port"`
	Path         string `json:"path,omitempty"`
	ReadLimit    int64  `json:"read_limit,omitempty"`
	PingInterval string `json:"ping_interval,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.ReadLimit < 0 {
		el.Add(fmt.Errorf("read_limit must not be negative"))
	}
	if cl.PingInterval != "" {
		_, err := time.ParseDuration(cl.PingInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing ping_interval: %w", err))
		}
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(handler transport.Handler, bus transport.Bus, logger *slog.Logger) (*transport.WebsocketListener, error) {
	var opts []transport.ListenerOpt
	if cl.Path != "" {
		opts = append(opts, transport.WithPath(cl.Path))
	}
	if cl.ReadLimit > 0 {
		opts = append(opts, transport.WithReadLimit(cl.ReadLimit))
	}
	if cl.PingInterval != "" {
		d, err := time.ParseDuration(cl.PingInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing ping_interval: %w", err)
		}
		opts = append(opts, transport.WithPingInterval(d))
	}

	return transport.NewWebsocketListener(cl.Port, handler, bus, logger, opts...), nil
}
