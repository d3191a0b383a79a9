package archive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shubhamjakhete/spotify-agent/internal/normalize"
)

// Rejection reasons. A cleaning function returns one of these (possibly
// wrapped) instead of a record; it never panics on malformed input.
var (
	ErrMissingEndTime  = errors.New("missing endTime")
	ErrMissingArtist   = errors.New("missing artist name")
	ErrMissingTrack    = errors.New("missing track name")
	ErrMissingAlbum    = errors.New("missing album name")
	ErrMissingDate     = errors.New("missing date")
	ErrMissingName     = errors.New("missing name")
	ErrEmptyAfterClean = errors.New("name empty after normalization")
	ErrBadTimestamp    = errors.New("unparsable endTime")
)

func cleanStreamingEvent(raw rawStreamingRecord) (StreamingEvent, error) {
	endTime := strings.TrimSpace(raw.EndTime)
	artist := strings.TrimSpace(raw.ArtistName)
	track := strings.TrimSpace(raw.TrackName)

	if endTime == "" {
		return StreamingEvent{}, ErrMissingEndTime
	}
	if artist == "" {
		return StreamingEvent{}, ErrMissingArtist
	}
	if track == "" {
		return StreamingEvent{}, ErrMissingTrack
	}

	timestamp, err := time.Parse(EndTimeLayout, endTime)
	if err != nil {
		return StreamingEvent{}, fmt.Errorf("%w %q: %v", ErrBadTimestamp, endTime, err)
	}

	artist = normalize.Artist(artist)
	track = normalize.Track(track)
	if artist == "" || track == "" {
		return StreamingEvent{}, ErrEmptyAfterClean
	}

	var seconds float64
	if raw.MsPlayed > 0 {
		seconds = float64(raw.MsPlayed) / 1000
	}

	return StreamingEvent{
		EndTime:       endTime,
		Timestamp:     timestamp,
		Artist:        artist,
		Track:         track,
		MsPlayed:      raw.MsPlayed,
		SecondsPlayed: seconds,
	}, nil
}

// cleanMonthlyStat validates one month of capsule stats. Nested top-lists are
// cleaned element-wise; the month survives even if every child is dropped.
func cleanMonthlyStat(raw rawMonthlyStat) (MonthlyStat, error) {
	if strings.TrimSpace(raw.Date) == "" {
		return MonthlyStat{}, ErrMissingDate
	}

	stat := MonthlyStat{
		Date:           raw.Date,
		StreamCount:    raw.StreamCount,
		SecondsPlayed:  raw.SecondsPlayed,
		TopTracks:      []TopEntry{},
		TopArtists:     []TopEntry{},
		TopGenres:      []TopEntry{},
		TimeOfDayStats: raw.TimeOfDayStats,
	}

	for _, msg := range raw.TopTracks {
		var rawEntry rawTopEntry
		if err := decodeElement(msg, &rawEntry); err != nil {
			continue
		}
		if entry, err := cleanTopTrack(rawEntry); err == nil {
			stat.TopTracks = append(stat.TopTracks, entry)
		}
	}
	for _, msg := range raw.TopArtists {
		var rawEntry rawTopEntry
		if err := decodeElement(msg, &rawEntry); err != nil {
			continue
		}
		if entry, err := cleanTopArtist(rawEntry); err == nil {
			stat.TopArtists = append(stat.TopArtists, entry)
		}
	}
	for _, msg := range raw.TopGenres {
		var rawEntry rawTopEntry
		if err := decodeElement(msg, &rawEntry); err != nil {
			continue
		}
		if entry, err := cleanTopGenre(rawEntry); err == nil {
			stat.TopGenres = append(stat.TopGenres, entry)
		}
	}

	return stat, nil
}

func cleanTopTrack(raw rawTopEntry) (TopEntry, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return TopEntry{}, ErrMissingName
	}
	return TopEntry{
		Name:          normalize.Track(name),
		StreamCount:   raw.StreamCount,
		SecondsPlayed: raw.SecondsPlayed,
	}, nil
}

func cleanTopArtist(raw rawTopEntry) (TopEntry, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return TopEntry{}, ErrMissingName
	}
	return TopEntry{
		Name:          normalize.Artist(name),
		StreamCount:   raw.StreamCount,
		SecondsPlayed: raw.SecondsPlayed,
	}, nil
}

// Genre names are grouping keys only; they are lower-cased rather than run
// through the artist/track rules.
func cleanTopGenre(raw rawTopEntry) (TopEntry, error) {
	name := strings.ToLower(strings.TrimSpace(raw.Name))
	if name == "" {
		return TopEntry{}, ErrMissingName
	}
	return TopEntry{
		Name:          name,
		StreamCount:   raw.StreamCount,
		SecondsPlayed: raw.SecondsPlayed,
	}, nil
}

func cleanLibraryTrack(raw rawLibraryTrack) (LibraryTrack, error) {
	artist := strings.TrimSpace(raw.Artist)
	track := strings.TrimSpace(raw.Track)
	if artist == "" {
		return LibraryTrack{}, ErrMissingArtist
	}
	if track == "" {
		return LibraryTrack{}, ErrMissingTrack
	}
	return LibraryTrack{
		Artist: normalize.Artist(artist),
		Album:  normalize.Album(strings.TrimSpace(raw.Album)),
		Track:  normalize.Track(track),
		URI:    strings.TrimSpace(raw.URI),
	}, nil
}

func cleanLibraryAlbum(raw rawLibraryAlbum) (LibraryAlbum, error) {
	artist := strings.TrimSpace(raw.Artist)
	album := strings.TrimSpace(raw.Album)
	if artist == "" {
		return LibraryAlbum{}, ErrMissingArtist
	}
	if album == "" {
		return LibraryAlbum{}, ErrMissingAlbum
	}
	return LibraryAlbum{
		Artist: normalize.Artist(artist),
		Album:  normalize.Album(album),
		URI:    strings.TrimSpace(raw.URI),
	}, nil
}
