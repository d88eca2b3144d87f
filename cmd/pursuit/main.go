package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/pursuitapp/pursuit/internal/cli"
	"github.com/pursuitapp/pursuit/internal/client"
	"github.com/pursuitapp/pursuit/internal/config"
	"github.com/pursuitapp/pursuit/internal/pipeline"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

// version is set via -ldflags at release time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	api := client.New(cfg.APIBaseURL, cfg.APIToken)
	store := pipeline.NewStore(api)

	app := &cli.App{
		Store:      store,
		Thresholds: urgency.Thresholds{Heavy: cfg.HeavyLoad, Critical: cfg.CriticalLoad},
		Version:    version,
		Now:        time.Now,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
