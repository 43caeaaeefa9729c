package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-footfall/internal/display"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	renderer, err := display.NewRenderer(cfg.Templates, cfg.WrapWidth)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	pannerOpts, err := cfg.pannerOpts()
	if err != nil {
		return nil, fmt.Errorf("creating panner: %w", err)
	}

	return service.WorkerList{
		"terminal": NewTerminal(cfg.server(), renderer, os.Stdin, os.Stdout, pannerOpts...),
	}, nil
}
