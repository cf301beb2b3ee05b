// cmd/server/migrate.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/database"
	"escpos-service/internal/utils"
)

// runMigration applies a single migration command against the configured database
func runMigration(configPath, command string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer utils.CloseLogger(logger)

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger, &cfg.Database)

	name, arg, _ := strings.Cut(command, ":")
	switch name {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		logger.Info("Migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	case "force":
		version, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid force version %q: %w", arg, err)
		}
		return migrator.Force(version)
	}

	return fmt.Errorf("unknown migration command %q", command)
}
