// Package archive loads a Spotify data-export directory and turns its three
// JSON documents into canonical, validated collections. Records are immutable
// once cleaned; downstream analysis treats them as read-only.
package archive

import (
	"encoding/json"
	"time"
)

// EndTimeLayout is the fixed timestamp format used by the streaming history
// export.
const EndTimeLayout = "2006-01-02 15:04"

// StreamingEvent is one cleaned play from the streaming history.
type StreamingEvent struct {
	EndTime       string    `json:"endTime" yaml:"endTime"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	Artist        string    `json:"artistName" yaml:"artistName"`
	Track         string    `json:"trackName" yaml:"trackName"`
	MsPlayed      int64     `json:"msPlayed" yaml:"msPlayed"`
	SecondsPlayed float64   `json:"secondsPlayed" yaml:"secondsPlayed"`
}

// TopEntry is one entry of a monthly top-tracks/artists/genres list.
type TopEntry struct {
	Name          string  `json:"name" yaml:"name"`
	StreamCount   int64   `json:"streamCount" yaml:"streamCount"`
	SecondsPlayed float64 `json:"secondsPlayed" yaml:"secondsPlayed"`
}

// MonthlyStat is one cleaned month of sound-capsule statistics.
type MonthlyStat struct {
	Date           string          `json:"date" yaml:"date"`
	StreamCount    int64           `json:"streamCount" yaml:"streamCount"`
	SecondsPlayed  float64         `json:"secondsPlayed" yaml:"secondsPlayed"`
	TopTracks      []TopEntry      `json:"topTracks" yaml:"topTracks"`
	TopArtists     []TopEntry      `json:"topArtists" yaml:"topArtists"`
	TopGenres      []TopEntry      `json:"topGenres" yaml:"topGenres"`
	TimeOfDayStats json.RawMessage `json:"timeOfDayStats,omitempty" yaml:"-"`
}

// SoundCapsule holds the cleaned monthly stats plus the export's highlights,
// which pass through untouched.
type SoundCapsule struct {
	Stats      []MonthlyStat     `json:"stats" yaml:"stats"`
	Highlights []json.RawMessage `json:"highlights,omitempty" yaml:"-"`
}

// LibraryTrack is one cleaned saved track.
type LibraryTrack struct {
	Artist string `json:"artist" yaml:"artist"`
	Album  string `json:"album" yaml:"album"`
	Track  string `json:"track" yaml:"track"`
	URI    string `json:"uri" yaml:"uri"`
}

// LibraryAlbum is one cleaned saved album.
type LibraryAlbum struct {
	Artist string `json:"artist" yaml:"artist"`
	Album  string `json:"album" yaml:"album"`
	URI    string `json:"uri" yaml:"uri"`
}

// Library holds the cleaned saved-library snapshot. Shows and episodes are
// not analyzed and pass through untouched.
type Library struct {
	Tracks   []LibraryTrack    `json:"tracks" yaml:"tracks"`
	Albums   []LibraryAlbum    `json:"albums" yaml:"albums"`
	Shows    []json.RawMessage `json:"shows,omitempty" yaml:"-"`
	Episodes []json.RawMessage `json:"episodes,omitempty" yaml:"-"`
}

// Archive is the canonical result of loading one export directory.
type Archive struct {
	StreamingHistory []StreamingEvent `json:"streaming_history" yaml:"streaming_history"`
	SoundCapsule     SoundCapsule     `json:"sound_capsule" yaml:"sound_capsule"`
	Library          Library          `json:"library" yaml:"library"`
}

// Raw shapes as they appear in the export files.

type rawStreamingRecord struct {
	EndTime    string `json:"endTime"`
	ArtistName string `json:"artistName"`
	TrackName  string `json:"trackName"`
	MsPlayed   int64  `json:"msPlayed"`
}

type rawTopEntry struct {
	Name          string  `json:"name"`
	StreamCount   int64   `json:"streamCount"`
	SecondsPlayed float64 `json:"secondsPlayed"`
}

type rawMonthlyStat struct {
	Date           string            `json:"date"`
	StreamCount    int64             `json:"streamCount"`
	SecondsPlayed  float64           `json:"secondsPlayed"`
	TopTracks      []json.RawMessage `json:"topTracks"`
	TopArtists     []json.RawMessage `json:"topArtists"`
	TopGenres      []json.RawMessage `json:"topGenres"`
	TimeOfDayStats json.RawMessage   `json:"timeOfDayStats"`
}

type rawSoundCapsule struct {
	Stats      []json.RawMessage `json:"stats"`
	Highlights []json.RawMessage `json:"highlights"`
}

type rawLibraryTrack struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Track  string `json:"track"`
	URI    string `json:"uri"`
}

type rawLibraryAlbum struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	URI    string `json:"uri"`
}

type rawLibrary struct {
	Tracks   []json.RawMessage `json:"tracks"`
	Albums   []json.RawMessage `json:"albums"`
	Shows    []json.RawMessage `json:"shows"`
	Episodes []json.RawMessage `json:"episodes"`
}
