// Package sqlite opens SQLite databases through whichever driver the binary
// was built with.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite (driver "sqlite")
//   - CGO_ENABLED=1 -tags cgo_sqlite: github.com/mattn/go-sqlite3 (driver "sqlite3")
//
// Use Open instead of sql.Open so callers never hard-code a driver name.
package sqlite

import (
	"database/sql"
	"strings"
)

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the compiled-in driver with foreign
// keys enforced on every pooled connection.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, withParam(dataSourceName, foreignKeysParam))
}

func withParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// OpenReadOnly opens an existing database file in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return sql.Open(driverName, readOnlyDSN(path))
}

func readOnlyDSN(path string) string {
	return "file:" + strings.TrimPrefix(path, "file:") + "?mode=ro"
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
