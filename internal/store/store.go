// Package store persists unistroke templates and runtime settings in SQLite.
//
// Templates keep the stroke exactly as it was drawn: one templates row per
// gesture and its points in template_points, ordered by sequence. Nothing
// normalized is stored, so a change of recognizer settings only needs a
// reload. The settings table holds string overrides keyed by setting name.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// pragmas run on the single connection before migrations.
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Store is an open template database.
type Store struct {
	db   *sql.DB
	path string
}

// New opens or creates the template database at dbPath and brings its
// schema up to date.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template database %s: %w", dbPath, err)
	}

	// Cascading point deletes rely on foreign_keys, which is per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: dbPath}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate template database %s: %w", dbPath, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the connection for queries outside the repositories.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file the store was opened from.
func (s *Store) Path() string {
	return s.path
}
