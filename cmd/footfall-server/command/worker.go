package command

import (
	"fmt"

	"github.com/pixil98/go-footfall/internal/driver"
	"github.com/pixil98/go-footfall/internal/listener"
	"github.com/pixil98/go-footfall/internal/messaging"
	"github.com/pixil98/go-footfall/internal/player"
	"github.com/pixil98/go-footfall/internal/world"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	workers := service.WorkerList{}

	// Optionally mirror world events onto an embedded broker
	var mirror player.EventMirror
	if cfg.Nats.Enabled {
		ns, err := cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		workers["nats"] = ns
		mirror = messaging.NewMirror(ns, cfg.Nats.subjectPrefix())
	}

	registry := world.NewRegistry()
	ports := world.NewSequence(int(cfg.Listener.port()) + 1)

	pm, err := cfg.PlayerManager.BuildPlayerManager(registry, ports, cfg.Listener.Host, mirror)
	if err != nil {
		return nil, fmt.Errorf("creating player manager: %w", err)
	}
	workers["player_manager"] = pm
	workers["listener"] = cfg.Listener.BuildListener(listener.NewConnectionManager(pm))

	// Periodic status reporting
	driverOpts, err := cfg.driverOpts()
	if err != nil {
		return nil, fmt.Errorf("creating driver: %w", err)
	}
	workers["driver"] = driver.NewDriver([]driver.Manager{pm}, driverOpts...)

	return workers, nil
}
