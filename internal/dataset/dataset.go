// Package dataset assembles the canonical collections, analysis, and
// duplicate report into one exportable structure.
package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shubhamjakhete/spotify-agent/internal/analysis"
	"github.com/shubhamjakhete/spotify-agent/internal/archive"
)

// ProcessedDataset is the root aggregate of one pipeline run. It is built
// once, owned by the caller, and never mutated afterwards.
type ProcessedDataset struct {
	StreamingHistory []archive.StreamingEvent  `json:"streaming_history" yaml:"streaming_history"`
	SoundCapsule     archive.SoundCapsule      `json:"sound_capsule" yaml:"sound_capsule"`
	Library          archive.Library           `json:"library" yaml:"library"`
	Analysis         *analysis.Analysis        `json:"analysis" yaml:"analysis"`
	Duplicates       *analysis.DuplicateReport `json:"duplicates" yaml:"duplicates"`
	Summary          Summary                   `json:"summary" yaml:"summary"`
}

// Summary is the at-a-glance block of a processed dataset.
type Summary struct {
	Records               RecordCounts `json:"records" yaml:"records"`
	TimeSpan              *TimeSpan    `json:"time_span,omitempty" yaml:"time_span,omitempty"`
	TotalListeningSeconds float64      `json:"total_listening_seconds" yaml:"total_listening_seconds"`
	UniqueArtists         int          `json:"unique_artists" yaml:"unique_artists"`
	UniqueTracks          int          `json:"unique_tracks" yaml:"unique_tracks"`
	ProcessedAt           time.Time    `json:"processed_at" yaml:"processed_at"`
}

// RecordCounts mirrors the sizes of the canonical collections exactly.
type RecordCounts struct {
	StreamingEvents int `json:"streaming_events" yaml:"streaming_events"`
	MonthlyStats    int `json:"monthly_stats" yaml:"monthly_stats"`
	LibraryTracks   int `json:"library_tracks" yaml:"library_tracks"`
	LibraryAlbums   int `json:"library_albums" yaml:"library_albums"`
}

// TimeSpan is the min/max end timestamp of the streaming history. Absent when
// the history is empty.
type TimeSpan struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Assemble combines the pipeline outputs into a ProcessedDataset. now becomes
// the processing timestamp.
func Assemble(arch *archive.Archive, an *analysis.Analysis, dup *analysis.DuplicateReport, now time.Time) *ProcessedDataset {
	return &ProcessedDataset{
		StreamingHistory: arch.StreamingHistory,
		SoundCapsule:     arch.SoundCapsule,
		Library:          arch.Library,
		Analysis:         an,
		Duplicates:       dup,
		Summary:          summarize(arch, an, now),
	}
}

func summarize(arch *archive.Archive, an *analysis.Analysis, now time.Time) Summary {
	s := Summary{
		Records: RecordCounts{
			StreamingEvents: len(arch.StreamingHistory),
			MonthlyStats:    len(arch.SoundCapsule.Stats),
			LibraryTracks:   len(arch.Library.Tracks),
			LibraryAlbums:   len(arch.Library.Albums),
		},
		TotalListeningSeconds: an.Engagement.TotalSeconds,
		UniqueArtists:         an.Engagement.UniqueArtists,
		UniqueTracks:          an.Engagement.UniqueTracks,
		ProcessedAt:           now,
	}

	for _, e := range arch.StreamingHistory {
		if s.TimeSpan == nil {
			s.TimeSpan = &TimeSpan{Start: e.Timestamp, End: e.Timestamp}
			continue
		}
		if e.Timestamp.Before(s.TimeSpan.Start) {
			s.TimeSpan.Start = e.Timestamp
		}
		if e.Timestamp.After(s.TimeSpan.End) {
			s.TimeSpan.End = e.Timestamp
		}
	}
	return s
}

// Process runs the whole pipeline for one export directory: load, analyze,
// detect duplicates, assemble.
func Process(dir string, logger *slog.Logger, now time.Time) (*ProcessedDataset, error) {
	arch, err := archive.NewLoader(dir, logger).Load()
	if err != nil {
		return nil, err
	}
	return Assemble(arch, analysis.Analyze(arch), analysis.DetectDuplicates(arch), now), nil
}

// WriteFile serializes the dataset as indented JSON. Timestamps marshal as
// RFC 3339; overlap sets and month sets are already ordered lists.
func (d *ProcessedDataset) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing dataset to %q: %w", path, err)
	}
	return nil
}
