package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// The migrate runner (cmd/migrate and server startup) applies them in order.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
