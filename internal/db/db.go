package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/banshee-data/pinhole/internal/timeutil"
	_ "modernc.org/sqlite"
)

// ErrProfileNotFound is returned when no camera profile matches a lookup.
var ErrProfileNotFound = errors.New("camera profile not found")

// ErrProfileExists is returned when creating a profile whose name is taken.
var ErrProfileExists = errors.New("camera profile already exists")

// DB is the camera profile store.
type DB struct {
	*sql.DB
	clock timeutil.Clock
}

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA foreign_keys = ON",
}

// NewDB opens (or creates) the sqlite database at path and applies all
// pending migrations.
func NewDB(path string) (*DB, error) {
	return NewDBWithClock(path, timeutil.RealClock{})
}

// NewDBWithClock is NewDB with an injectable clock for timestamps.
func NewDBWithClock(path string, clock timeutil.Clock) (*DB, error) {
	db, err := Open(path, clock)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Open opens the database and applies connection pragmas without touching
// the schema. Callers that manage migrations themselves use this.
func Open(path string, clock timeutil.Clock) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return &DB{DB: sqlDB, clock: clock}, nil
}
