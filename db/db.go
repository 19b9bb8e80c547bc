// Package db holds the SQL migrations, one directory per dialect.
package db

import "embed"

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var Migrations embed.FS

// MigrationsDir returns the directory inside Migrations for a goose dialect.
func MigrationsDir(dialect string) string {
	if dialect == "postgres" {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}
