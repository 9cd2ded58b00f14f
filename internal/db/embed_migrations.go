package db

import "embed"

// MigrationFS holds the users, catalog and audit schema migrations applied by cmd/migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
