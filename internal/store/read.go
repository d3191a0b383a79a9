package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
)

// RankRow is one row of a ranked report query.
type RankRow struct {
	Artist  string
	Track   string
	Streams int64
	Seconds float64
}

func (s *Store) CountListens() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM Listen").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting listens: %w", err)
	}
	return count, nil
}

// GetLatestListen returns the end time of the most recent stored listen.
// The zero time is returned when no listens are stored.
func (s *Store) GetLatestListen() (time.Time, error) {
	var endTime string
	err := s.db.QueryRow("SELECT end_time FROM Listen ORDER BY end_time DESC LIMIT 1").Scan(&endTime)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying latest listen: %w", err)
	}
	return time.Parse(archive.EndTimeLayout, endTime)
}

func (s *Store) GetLastImported() (time.Time, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM Meta WHERE key = 'last_imported'").Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying import time: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

// GetTopArtists ranks artists by stream count within [start, end).
// End times are stored in a lexically sortable layout, so the range
// comparison is done on the text column directly.
func (s *Store) GetTopArtists(start, end time.Time, limit int) ([]RankRow, error) {
	rows, err := s.db.Query(`
		SELECT Track.artist, COUNT(*), SUM(Listen.seconds_played)
		FROM Listen JOIN Track ON Listen.track = Track.id
		WHERE Listen.end_time >= ? AND Listen.end_time < ?
		GROUP BY Track.artist
		ORDER BY COUNT(*) DESC, SUM(Listen.seconds_played) DESC, Track.artist ASC
		LIMIT ?`,
		start.Format(archive.EndTimeLayout), end.Format(archive.EndTimeLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var out []RankRow
	for rows.Next() {
		var r RankRow
		if err := rows.Scan(&r.Artist, &r.Streams, &r.Seconds); err != nil {
			return nil, fmt.Errorf("scanning artist row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTopTracks ranks tracks by stream count within [start, end).
func (s *Store) GetTopTracks(start, end time.Time, limit int) ([]RankRow, error) {
	rows, err := s.db.Query(`
		SELECT Track.artist, Track.name, COUNT(*), SUM(Listen.seconds_played)
		FROM Listen JOIN Track ON Listen.track = Track.id
		WHERE Listen.end_time >= ? AND Listen.end_time < ?
		GROUP BY Track.id
		ORDER BY COUNT(*) DESC, SUM(Listen.seconds_played) DESC, Track.artist ASC, Track.name ASC
		LIMIT ?`,
		start.Format(archive.EndTimeLayout), end.Format(archive.EndTimeLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top tracks: %w", err)
	}
	defer rows.Close()

	var out []RankRow
	for rows.Next() {
		var r RankRow
		if err := rows.Scan(&r.Artist, &r.Track, &r.Streams, &r.Seconds); err != nil {
			return nil, fmt.Errorf("scanning track row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountLibraryTracks returns the size of the stored library snapshot.
func (s *Store) CountLibraryTracks() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM LibraryTrack").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting library tracks: %w", err)
	}
	return count, nil
}
