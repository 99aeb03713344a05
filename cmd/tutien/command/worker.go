package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-service"

	"github.com/tutien/tutien-server/internal/driver"
	"github.com/tutien/tutien-server/internal/messaging"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	logger := slog.Default()

	playerStore, err := cfg.Storage.BuildPlayerStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	registry := cfg.Session.BuildRegistry()
	broadcaster := messaging.NewBroadcaster(natsServer, registry)
	processor := cfg.Session.BuildProcessor()
	coordinator := cfg.Session.BuildCoordinator(playerStore, broadcaster, registry, processor, logger)

	listener, err := cfg.Listener.BuildListener(coordinator, natsServer, logger)
	if err != nil {
		return nil, fmt.Errorf("creating listener: %w", err)
	}

	var driverOpts []driver.GameDriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	gameDriver := driver.NewGameDriver([]driver.Manager{
		coordinator,
	}, driverOpts...)

	workers := service.WorkerList{
		"nats":     natsServer,
		"session":  coordinator,
		"listener": listener,
		"driver":   gameDriver,
	}
	if cfg.Ops.Port != 0 {
		workers["ops"] = cfg.Ops.BuildServer(coordinator, playerStore, registry, logger)
	}

	return workers, nil
}
