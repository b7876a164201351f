package main

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the template config to the --config path, or prints the effective config with --show.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("show") {
		if err := toml.NewEncoder(r.output).Encode(r.config); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	}

	path, err := shared.ExpandPath(r.configPath)
	if err != nil {
		return err
	}
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	storage := r.config.Storage
	r.logger.Info("initializing database", "path", storage.Path)

	db, err := shared.NewDatabase(storage.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, storage.MaxOpenConns, storage.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
	} else {
		r.logger.Info("running database migrations")
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return err
	}
	r.writePlainHeader(storage.Path)
	if len(applied) == 0 {
		return r.writePlain("No migrations applied\n")
	}
	for _, m := range applied {
		r.writePlain("  %03d  applied %s\n", m.Version, m.AppliedAt.Format(time.DateTime))
	}
	return nil
}
