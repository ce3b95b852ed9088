package db

import "embed"

// EmbedMigrations carries the metastore schema migrations in the binary so
// the server needs no migration files on disk.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
