package archive

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Fixed file names inside the export directory.
const (
	StreamingHistoryFile = "StreamingHistory_music_0.json"
	SoundCapsuleFile     = "YourSoundCapsule.json"
	LibraryFile          = "YourLibrary.json"
)

// Loader reads one export directory. A missing or malformed file yields an
// empty collection for that source; only an unreadable directory is an error.
// A Loader is good for a single Load of a single directory.
type Loader struct {
	dir    string
	logger *slog.Logger
}

func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load reads and cleans all three sources. One source failing to parse never
// aborts the others.
func (l *Loader) Load() (*Archive, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, fmt.Errorf("reading data directory %q: %w", l.dir, err)
	}

	arch := &Archive{
		StreamingHistory: l.loadStreamingHistory(),
		SoundCapsule:     l.loadSoundCapsule(),
		Library:          l.loadLibrary(),
	}

	l.logger.Info("archive loaded",
		"streaming_events", len(arch.StreamingHistory),
		"monthly_stats", len(arch.SoundCapsule.Stats),
		"library_tracks", len(arch.Library.Tracks),
		"library_albums", len(arch.Library.Albums))
	return arch, nil
}

func (l *Loader) loadStreamingHistory() []StreamingEvent {
	var elements []json.RawMessage
	if !l.readSource(StreamingHistoryFile, &elements) {
		return []StreamingEvent{}
	}

	events := make([]StreamingEvent, 0, len(elements))
	rejected := 0
	for _, msg := range elements {
		var raw rawStreamingRecord
		if err := decodeElement(msg, &raw); err != nil {
			l.logger.Warn("dropping streaming record", "reason", err)
			rejected++
			continue
		}
		event, err := cleanStreamingEvent(raw)
		if err != nil {
			l.logger.Warn("dropping streaming record", "reason", err)
			rejected++
			continue
		}
		events = append(events, event)
	}

	l.logger.Info("streaming history loaded", "accepted", len(events), "rejected", rejected)
	return events
}

func (l *Loader) loadSoundCapsule() SoundCapsule {
	capsule := SoundCapsule{Stats: []MonthlyStat{}}

	var raw rawSoundCapsule
	if !l.readSource(SoundCapsuleFile, &raw) {
		return capsule
	}
	capsule.Highlights = raw.Highlights

	rejected := 0
	for _, msg := range raw.Stats {
		var rawStat rawMonthlyStat
		if err := decodeElement(msg, &rawStat); err != nil {
			l.logger.Warn("dropping monthly stat", "reason", err)
			rejected++
			continue
		}
		stat, err := cleanMonthlyStat(rawStat)
		if err != nil {
			l.logger.Warn("dropping monthly stat", "reason", err)
			rejected++
			continue
		}
		capsule.Stats = append(capsule.Stats, stat)
	}

	l.logger.Info("sound capsule loaded", "accepted", len(capsule.Stats), "rejected", rejected)
	return capsule
}

func (l *Loader) loadLibrary() Library {
	library := Library{Tracks: []LibraryTrack{}, Albums: []LibraryAlbum{}}

	var raw rawLibrary
	if !l.readSource(LibraryFile, &raw) {
		return library
	}
	library.Shows = raw.Shows
	library.Episodes = raw.Episodes

	rejected := 0
	for _, msg := range raw.Tracks {
		var rawTrack rawLibraryTrack
		if err := decodeElement(msg, &rawTrack); err != nil {
			l.logger.Warn("dropping library track", "reason", err)
			rejected++
			continue
		}
		track, err := cleanLibraryTrack(rawTrack)
		if err != nil {
			l.logger.Warn("dropping library track", "reason", err)
			rejected++
			continue
		}
		library.Tracks = append(library.Tracks, track)
	}
	for _, msg := range raw.Albums {
		var rawAlbum rawLibraryAlbum
		if err := decodeElement(msg, &rawAlbum); err != nil {
			l.logger.Warn("dropping library album", "reason", err)
			rejected++
			continue
		}
		album, err := cleanLibraryAlbum(rawAlbum)
		if err != nil {
			l.logger.Warn("dropping library album", "reason", err)
			rejected++
			continue
		}
		library.Albums = append(library.Albums, album)
	}

	l.logger.Info("library loaded",
		"tracks", len(library.Tracks), "albums", len(library.Albums), "rejected", rejected)
	return library
}

// readSource reads and unmarshals one source file into dest. It reports
// whether the file was present and well-formed; both failure modes leave the
// source empty rather than failing the load.
func (l *Loader) readSource(name string, dest any) bool {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		l.logger.Warn("source file not found", "file", name)
		return false
	}
	if err != nil {
		l.logger.Error("reading source file", "file", name, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		l.logger.Error("malformed source file", "file", name, "error", err)
		return false
	}
	return true
}

func decodeElement(msg json.RawMessage, dest any) error {
	if err := json.Unmarshal(msg, dest); err != nil {
		return fmt.Errorf("malformed element: %w", err)
	}
	return nil
}
