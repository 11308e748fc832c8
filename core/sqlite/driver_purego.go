//go:build !cgo_sqlite

package sqlite

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"

	// foreignKeysParam turns on foreign key enforcement in the DSN.
	foreignKeysParam = "_pragma=foreign_keys(1)"
)
