// Package sqlite opens the SQLite databases that hold platform reference
// documentation. The driver is chosen at build time: modernc.org/sqlite by
// default, mattn/go-sqlite3 with -tags cgo_sqlite.
package sqlite

import (
	"database/sql"
	"fmt"
)

// Driver describes the driver compiled into this build.
type Driver struct {
	Name    string // database/sql driver name
	Package string // import path of the implementation
	CGO     bool
}

// String renders the driver for version output.
func (d Driver) String() string {
	if d.CGO {
		return d.Package + " (cgo)"
	}
	return d.Package
}

// Current returns the driver registered for this build.
func Current() Driver {
	return Driver{Name: driverName, Package: driverPackage, CGO: driverCGO}
}

// Open opens or creates a database file.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// OpenReadOnly opens an existing database file without write access.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open("file:" + path + "?mode=ro")
}
