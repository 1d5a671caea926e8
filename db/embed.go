package db

import "embed"

// MigrationsFS holds the schema migration files compiled into the binary.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
