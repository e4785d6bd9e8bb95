package db

import (
	"io/fs"

	"github.com/persistorai/netgraph/internal/db/migrations"
)

// SchemaVersion returns the number of embedded migration files for the given
// driver ("postgres" or "sqlite"), which equals the expected schema version.
func SchemaVersion(driver string) int {
	fsys := migrations.Postgres()
	if driver == "sqlite" {
		fsys = migrations.SQLite()
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
