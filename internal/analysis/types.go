// Package analysis computes derived statistics over a cleaned archive. Every
// function here is pure: it reads the canonical collections and returns fresh
// accumulators owned by the caller, so repeated runs never share state.
package analysis

// Ranking caps.
const (
	MaxRankedEntities = 50
	MaxRankedGenres   = 20
)

// Playback thresholds, in seconds. Fixed heuristics, not per-track.
const (
	SkipThresholdSeconds       = 30
	CompletionThresholdSeconds = 180
)

// Analysis is the full derived-statistics block of a processed dataset.
type Analysis struct {
	TimePeriods map[string]*PeriodStats `json:"time_periods" yaml:"time_periods"`
	Artists     Rankings                `json:"artists" yaml:"artists"`
	Tracks      Rankings                `json:"tracks" yaml:"tracks"`
	Genres      GenreRankings           `json:"genres" yaml:"genres"`
	Patterns    ListeningPatterns       `json:"listening_patterns" yaml:"listening_patterns"`
	Engagement  EngagementMetrics       `json:"engagement" yaml:"engagement"`
}

// PeriodStats aggregates the streaming events of one calendar month.
type PeriodStats struct {
	StreamCount         int              `json:"stream_count" yaml:"stream_count"`
	SecondsPlayed       float64          `json:"seconds_played" yaml:"seconds_played"`
	Artists             map[string]int64 `json:"artists" yaml:"artists"`
	Tracks              map[string]int64 `json:"tracks" yaml:"tracks"`
	AverageStreamLength float64          `json:"average_stream_length" yaml:"average_stream_length"`
}

// EntityStat is an artist's or track's accumulated listening volume, combined
// from streaming history and capsule top-lists. The two sources cover
// different measurement windows and are deliberately summed, not reconciled.
type EntityStat struct {
	Name          string  `json:"name" yaml:"name"`
	StreamCount   int64   `json:"stream_count" yaml:"stream_count"`
	SecondsPlayed float64 `json:"seconds_played" yaml:"seconds_played"`
}

// Engagement is the average seconds per stream, 0 when nothing was streamed.
func (e EntityStat) Engagement() float64 {
	if e.StreamCount <= 0 {
		return 0
	}
	return e.SecondsPlayed / float64(e.StreamCount)
}

// Rankings holds the same entities in three orders. Each list is capped at
// MaxRankedEntities; ties keep first-seen order.
type Rankings struct {
	ByTotalTime   []EntityStat `json:"by_total_time" yaml:"by_total_time"`
	ByStreamCount []EntityStat `json:"by_stream_count" yaml:"by_stream_count"`
	ByEngagement  []EntityStat `json:"by_engagement" yaml:"by_engagement"`
}

// GenreStat accumulates one genre across capsule months. Months is the sorted
// set of distinct months the genre appeared in.
type GenreStat struct {
	Name          string   `json:"name" yaml:"name"`
	StreamCount   int64    `json:"stream_count" yaml:"stream_count"`
	SecondsPlayed float64  `json:"seconds_played" yaml:"seconds_played"`
	Months        []string `json:"months" yaml:"months"`
}

// GenreRankings orders genres three ways, capped at MaxRankedGenres.
// ByConsistency ranks by the number of distinct active months.
type GenreRankings struct {
	ByTotalTime   []GenreStat `json:"by_total_time" yaml:"by_total_time"`
	ByStreamCount []GenreStat `json:"by_stream_count" yaml:"by_stream_count"`
	ByConsistency []GenreStat `json:"by_consistency" yaml:"by_consistency"`
}

// ListeningPatterns buckets streaming events by when they happened and how
// long they ran.
type ListeningPatterns struct {
	TimeOfDay      map[string]int `json:"time_of_day" yaml:"time_of_day"`
	DayOfWeek      map[string]int `json:"day_of_week" yaml:"day_of_week"`
	SessionLengths []float64      `json:"session_lengths" yaml:"session_lengths"`
	SkipCounts     map[string]int `json:"skip_counts" yaml:"skip_counts"`
}

// EngagementMetrics summarizes overall listening intensity.
type EngagementMetrics struct {
	TotalStreams        int                `json:"total_streams" yaml:"total_streams"`
	TotalSeconds        float64            `json:"total_seconds" yaml:"total_seconds"`
	UniqueArtists       int                `json:"unique_artists" yaml:"unique_artists"`
	UniqueTracks        int                `json:"unique_tracks" yaml:"unique_tracks"`
	AverageStreamLength float64            `json:"average_stream_length" yaml:"average_stream_length"`
	CompletionRates     map[string]float64 `json:"completion_rates" yaml:"completion_rates"`
}
