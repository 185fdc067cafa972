// Package migrations owns the lexicon database schema.
//
// Schema files are embedded and applied with golang-migrate through Driver,
// a migrate database driver that works on any *sql.DB opened with
// ncruces/go-sqlite3. golang-migrate's own sqlite3 driver links
// mattn/go-sqlite3, which registers the same "sqlite3" driver name.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var schemaFS embed.FS

// FS returns the embedded migration files.
func FS() fs.FS {
	return schemaFS
}

// New builds a migrate instance over db using the embedded schema.
func New(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(schemaFS, ".")
	if err != nil {
		return nil, err
	}
	drv, err := WithInstance(db, &Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "sqlite3", drv)
}

// Up applies every pending migration. An already current schema is not an
// error.
func Up(db *sql.DB) error {
	m, err := New(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version reports the applied schema version. ok is false on a database
// that has never been migrated.
func Version(db *sql.DB) (version uint, dirty bool, ok bool, err error) {
	m, err := New(db)
	if err != nil {
		return 0, false, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}
