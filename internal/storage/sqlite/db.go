// Package sqlite persists the shopping list and pantry in a single
// SQLite file using the pure-Go modernc driver.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS list_items (
	id              TEXT PRIMARY KEY,
	owner_id        TEXT NOT NULL,
	name            TEXT NOT NULL,
	quantity        REAL NOT NULL,
	unit            TEXT NOT NULL,
	category        TEXT NOT NULL,
	priority        TEXT NOT NULL,
	notes           TEXT NOT NULL DEFAULT '',
	estimated_price REAL,
	completed       INTEGER NOT NULL DEFAULT 0,
	created_at      INTEGER NOT NULL,
	seq             INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_list_owner ON list_items(owner_id, seq);

CREATE TABLE IF NOT EXISTS pantry (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	name        TEXT NOT NULL,
	quantity    REAL NOT NULL,
	unit_amount REAL NOT NULL,
	unit        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_pantry_owner ON pantry(owner_id);
`

// DB is an open database. ListStore and PantryStore share it.
type DB struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens or creates the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, log *logger.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.WrapError(domain.KindStorage, "sqlite.open", err)
	}
	// One writer; also keeps ":memory:" to a single database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, domain.WrapError(domain.KindStorage, "sqlite.open", fmt.Errorf("%s: %w", p, err))
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, domain.WrapError(domain.KindStorage, "sqlite.schema", err)
	}

	log.Debug("sqlite: opened %s", path)
	return &DB{db: db, log: log}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ListStore returns the shopping-list view of the database.
func (d *DB) ListStore() *ListStore {
	return &ListStore{db: d.db, log: d.log}
}

// PantryStore returns the pantry view of the database.
func (d *DB) PantryStore() *PantryStore {
	return &PantryStore{db: d.db, log: d.log}
}

func storageErr(op string, err error) error {
	return domain.WrapError(domain.KindStorage, op, err)
}
