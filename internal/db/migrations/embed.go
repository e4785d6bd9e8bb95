// Package migrations embeds the SQL schema for the social store.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migrations for the PostgreSQL dialect.
func Postgres() fs.FS { return sub("postgres") }

// SQLite returns the migrations for the SQLite dialect.
func SQLite() fs.FS { return sub("sqlite") }

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		panic(err) // dir is a compile-time constant covered by the embed pattern.
	}

	return fsys
}
