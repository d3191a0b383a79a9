package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
)

// ImportStreamingHistory inserts cleaned events in a single transaction,
// skipping any listen already stored with the same track, end time, and
// played duration. It returns the number of new rows.
func (s *Store) ImportStreamingHistory(events []archive.StreamingEvent) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, e := range events {
		if err := ensureArtist(tx, e.Artist); err != nil {
			return 0, err
		}
		trackID, err := ensureTrack(tx, e.Artist, e.Track)
		if err != nil {
			return 0, err
		}

		var exists int
		err = tx.QueryRow(
			"SELECT COUNT(*) FROM Listen WHERE track = ? AND end_time = ? AND ms_played = ?",
			trackID, e.EndTime, e.MsPlayed).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("checking for existing listen: %w", err)
		}
		if exists > 0 {
			continue
		}

		_, err = tx.Exec(
			"INSERT INTO Listen (track, end_time, ms_played, seconds_played) VALUES (?, ?, ?, ?)",
			trackID, e.EndTime, e.MsPlayed, e.SecondsPlayed)
		if err != nil {
			return 0, fmt.Errorf("inserting listen: %w", err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return added, nil
}

// ImportLibrary replaces the stored library snapshot with the given one.
func (s *Store) ImportLibrary(lib archive.Library) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM LibraryTrack"); err != nil {
		return fmt.Errorf("clearing library tracks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM LibraryAlbum"); err != nil {
		return fmt.Errorf("clearing library albums: %w", err)
	}

	for _, t := range lib.Tracks {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO LibraryTrack (artist, album, name, uri) VALUES (?, ?, ?, ?)",
			t.Artist, t.Album, t.Track, t.URI)
		if err != nil {
			return fmt.Errorf("inserting library track: %w", err)
		}
	}
	for _, a := range lib.Albums {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO LibraryAlbum (artist, name, uri) VALUES (?, ?, ?)",
			a.Artist, a.Album, a.URI)
		if err != nil {
			return fmt.Errorf("inserting library album: %w", err)
		}
	}

	return tx.Commit()
}

// SetLastImported records when an archive was last imported.
func (s *Store) SetLastImported(at time.Time) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO Meta (key, value) VALUES ('last_imported', ?)",
		at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording import time: %w", err)
	}
	return nil
}

func ensureArtist(tx *sql.Tx, name string) error {
	_, err := tx.Exec("INSERT OR IGNORE INTO Artist (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("inserting artist: %w", err)
	}
	return nil
}

func ensureTrack(tx *sql.Tx, artist, name string) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM Track WHERE artist = ? AND name = ?", artist, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up track: %w", err)
	}

	result, err := tx.Exec("INSERT INTO Track (artist, name) VALUES (?, ?)", artist, name)
	if err != nil {
		return 0, fmt.Errorf("inserting track: %w", err)
	}
	return result.LastInsertId()
}
