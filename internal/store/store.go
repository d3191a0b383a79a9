// Package store persists canonical streaming history and library snapshots
// in a local SQLite database, so ranked reports can be queried without
// re-reading the export archive.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS Artist (
  name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS Track (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT NOT NULL,
  name TEXT NOT NULL,
  FOREIGN KEY (artist) REFERENCES Artist(name)
);

CREATE TABLE IF NOT EXISTS Listen (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  track INTEGER NOT NULL,
  end_time TEXT NOT NULL,
  ms_played INTEGER NOT NULL,
  seconds_played REAL NOT NULL,
  FOREIGN KEY (track) REFERENCES Track(id)
);

CREATE TABLE IF NOT EXISTS LibraryTrack (
  artist TEXT NOT NULL,
  album TEXT,
  name TEXT NOT NULL,
  uri TEXT,
  PRIMARY KEY (artist, name)
);

CREATE TABLE IF NOT EXISTS LibraryAlbum (
  artist TEXT NOT NULL,
  name TEXT NOT NULL,
  uri TEXT,
  PRIMARY KEY (artist, name)
);

CREATE TABLE IF NOT EXISTS Meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
