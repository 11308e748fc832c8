//go:build cgo_sqlite

// Build with: CGO_ENABLED=1 go build -tags cgo_sqlite

package sqlite

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	driverName    = "sqlite3"
	driverType    = "cgo"
	driverPackage = "github.com/mattn/go-sqlite3"

	// foreignKeysParam turns on foreign key enforcement in the DSN.
	foreignKeysParam = "_foreign_keys=1"
)
