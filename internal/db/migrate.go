package db

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/dojotek/chatbot/internal/config"
)

// RunMigrate executes a schema migration command against the configured
// database. migrationsFS must expose the .sql migration files at its root.
//
// Commands:
//
//	up         apply all pending migrations
//	down       roll back the most recent migration
//	down all   roll back everything
//	version    report the current schema version
//	force N    overwrite the recorded version without running migrations
func RunMigrate(logger *slog.Logger, cfg config.PostgresConfig, migrationsFS fs.FS, command string, args []string) error {
	var forceVersion int
	switch command {
	case "up", "version":
	case "down":
		if len(args) > 0 && args[0] != "all" {
			return fmt.Errorf("migrate down accepts only %q as an argument", "all")
		}
	case "force":
		if len(args) == 0 {
			return fmt.Errorf("force requires a target version")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid target version %q: %w", args[0], err)
		}
		forceVersion = v
	default:
		return fmt.Errorf("unknown migrate command %q (expected up, down, version, or force)", command)
	}

	sourceDriver, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, DSN(cfg))
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	m.Log = slogAdapter{log: logger}

	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migrate up: %w", err)
		}
		ver, dirty, _ := m.Version()
		logger.Info("migrations applied", slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))

	case "down":
		if len(args) > 0 {
			if err := m.Down(); err != nil && err != migrate.ErrNoChange {
				return fmt.Errorf("migrate down: %w", err)
			}
			logger.Info("rolled back all migrations")
			return nil
		}
		if err := m.Steps(-1); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		if ver, dirty, verr := m.Version(); verr == nil {
			logger.Info("rolled back one migration", slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))
		} else {
			logger.Info("rolled back one migration", slog.String("version", "none"))
		}

	case "version":
		ver, dirty, err := m.Version()
		if err == migrate.ErrNilVersion {
			logger.Info("no migrations applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		logger.Info("schema version", slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))

	case "force":
		if err := m.Force(forceVersion); err != nil {
			return fmt.Errorf("migrate force: %w", err)
		}
		logger.Info("schema version forced", slog.Int("version", forceVersion))
	}

	return nil
}

// slogAdapter bridges golang-migrate's Logger interface onto slog.
type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Printf(format string, v ...any) {
	a.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (a slogAdapter) Verbose() bool { return false }
