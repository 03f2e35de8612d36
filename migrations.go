package cms

import (
	"embed"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded schema migration files so host
// applications can run them with their own migration tooling.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
