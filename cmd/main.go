package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "wandrix",
		Usage:   "Compare destinations, plan itineraries and keep a travel wishlist",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "style",
				Usage: "Markdown style (dark, light, notty, raw); detected from the terminal when empty",
			},
			&cli.BoolFlag{
				Name:  "no-store",
				Usage: "Keep the session in memory instead of the local database",
			},
		},
		Before:   r.Bootstrap,
		After:    r.Close,
		Commands: r.register(),
	}
}
