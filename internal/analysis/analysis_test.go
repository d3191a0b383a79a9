package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
)

func event(t *testing.T, endTime, artist, track string, msPlayed int64) archive.StreamingEvent {
	t.Helper()
	ts, err := time.Parse(archive.EndTimeLayout, endTime)
	if err != nil {
		t.Fatalf("bad fixture time %q: %v", endTime, err)
	}
	var seconds float64
	if msPlayed > 0 {
		seconds = float64(msPlayed) / 1000
	}
	return archive.StreamingEvent{
		EndTime:       endTime,
		Timestamp:     ts,
		Artist:        artist,
		Track:         track,
		MsPlayed:      msPlayed,
		SecondsPlayed: seconds,
	}
}

func TestTimePeriodStats(t *testing.T) {
	events := []archive.StreamingEvent{
		event(t, "2024-01-01 10:00", "Drake", "God's Plan", 200000),
		event(t, "2024-01-15 22:00", "Drake", "Nonstop", 100000),
		event(t, "2024-02-01 09:00", "SZA", "Kill Bill", 180000),
	}

	periods := timePeriodStats(events)

	jan := periods["2024-01"]
	if jan == nil {
		t.Fatal("expected stats for 2024-01")
	}
	if jan.StreamCount != 2 {
		t.Errorf("expected 2 january streams, got %d", jan.StreamCount)
	}
	if jan.SecondsPlayed != 300 {
		t.Errorf("expected 300 january seconds, got %v", jan.SecondsPlayed)
	}
	if jan.AverageStreamLength != 150 {
		t.Errorf("expected average 150, got %v", jan.AverageStreamLength)
	}
	if jan.Artists["Drake"] != 2 {
		t.Errorf("expected Drake counted twice in january, got %d", jan.Artists["Drake"])
	}
	if len(periods) != 2 {
		t.Errorf("expected 2 periods, got %d", len(periods))
	}
}

// Streaming plays and capsule top-lists are summed, not reconciled: the same
// listening measured by both sources counts twice.
func TestRankArtistsUnionsSources(t *testing.T) {
	arch := &archive.Archive{
		StreamingHistory: []archive.StreamingEvent{
			event(t, "2024-01-01 10:00", "Drake", "God's Plan", 200000),
		},
		SoundCapsule: archive.SoundCapsule{Stats: []archive.MonthlyStat{
			{Date: "2024-01", TopArtists: []archive.TopEntry{
				{Name: "Drake", StreamCount: 30, SecondsPlayed: 5400},
			}},
		}},
	}

	rankings := rankArtists(arch)
	if len(rankings.ByStreamCount) != 1 {
		t.Fatalf("expected 1 ranked artist, got %d", len(rankings.ByStreamCount))
	}
	top := rankings.ByStreamCount[0]
	if top.StreamCount != 31 {
		t.Errorf("expected 31 streams (1 event + 30 capsule), got %d", top.StreamCount)
	}
	if top.SecondsPlayed != 5600 {
		t.Errorf("expected 5600 seconds, got %v", top.SecondsPlayed)
	}
}

func TestRankingsCappedAndSorted(t *testing.T) {
	var events []archive.StreamingEvent
	for i := 0; i < MaxRankedEntities+10; i++ {
		events = append(events, event(t, "2024-01-01 10:00",
			fmt.Sprintf("Artist %02d", i), fmt.Sprintf("Track %02d", i), int64((i+1)*1000)))
	}
	arch := &archive.Archive{StreamingHistory: events}

	rankings := rankTracks(arch)
	if len(rankings.ByTotalTime) != MaxRankedEntities {
		t.Fatalf("expected cap of %d, got %d", MaxRankedEntities, len(rankings.ByTotalTime))
	}
	for i := 1; i < len(rankings.ByTotalTime); i++ {
		if rankings.ByTotalTime[i].SecondsPlayed > rankings.ByTotalTime[i-1].SecondsPlayed {
			t.Fatalf("by_total_time not non-increasing at %d", i)
		}
	}
}

// Equal keys must keep first-seen order in every ranking.
func TestRankingTiesKeepInsertionOrder(t *testing.T) {
	arch := &archive.Archive{
		StreamingHistory: []archive.StreamingEvent{
			event(t, "2024-01-01 10:00", "First", "T1", 60000),
			event(t, "2024-01-01 11:00", "Second", "T2", 60000),
			event(t, "2024-01-01 12:00", "Third", "T3", 60000),
		},
	}
	rankings := rankArtists(arch)
	want := []string{"First", "Second", "Third"}
	for i, name := range want {
		if rankings.ByTotalTime[i].Name != name {
			t.Errorf("tie order broken: position %d is %q, want %q",
				i, rankings.ByTotalTime[i].Name, name)
		}
	}
}

// A capsule-only artist has seconds but zero streams; its engagement average
// is 0 and it ranks last, with no division by zero.
func TestZeroStreamEngagementRanksLast(t *testing.T) {
	arch := &archive.Archive{
		StreamingHistory: []archive.StreamingEvent{
			event(t, "2024-01-01 10:00", "Streamed", "T", 200000),
		},
		SoundCapsule: archive.SoundCapsule{Stats: []archive.MonthlyStat{
			{Date: "2024-01", TopArtists: []archive.TopEntry{
				{Name: "CapsuleOnly", StreamCount: 0, SecondsPlayed: 9000},
			}},
		}},
	}

	rankings := rankArtists(arch)
	last := rankings.ByEngagement[len(rankings.ByEngagement)-1]
	if last.Name != "CapsuleOnly" {
		t.Errorf("expected zero-stream artist to rank last, got %q", last.Name)
	}
	if last.Engagement() != 0 {
		t.Errorf("expected engagement 0, got %v", last.Engagement())
	}
}

// Capsule with one month and one genre: exactly one lower-cased genre entry.
func TestRankGenresFromCapsule(t *testing.T) {
	stats := []archive.MonthlyStat{
		{Date: "2024-01", TopGenres: []archive.TopEntry{
			{Name: "pop", StreamCount: 5, SecondsPlayed: 900},
		}},
	}

	genres := rankGenres(stats)
	if len(genres.ByTotalTime) != 1 {
		t.Fatalf("expected 1 genre, got %d", len(genres.ByTotalTime))
	}
	g := genres.ByTotalTime[0]
	if g.Name != "pop" {
		t.Errorf("expected genre key \"pop\", got %q", g.Name)
	}
	if g.SecondsPlayed != 900 {
		t.Errorf("expected 900 seconds, got %v", g.SecondsPlayed)
	}
	if len(g.Months) != 1 || g.Months[0] != "2024-01" {
		t.Errorf("expected month set [2024-01], got %v", g.Months)
	}
}

func TestRankGenresByConsistency(t *testing.T) {
	stats := []archive.MonthlyStat{
		{Date: "2024-01", TopGenres: []archive.TopEntry{
			{Name: "pop", StreamCount: 1, SecondsPlayed: 100},
			{Name: "rap", StreamCount: 50, SecondsPlayed: 5000},
		}},
		{Date: "2024-02", TopGenres: []archive.TopEntry{
			{Name: "pop", StreamCount: 1, SecondsPlayed: 100},
		}},
	}

	genres := rankGenres(stats)
	if genres.ByConsistency[0].Name != "pop" {
		t.Errorf("expected pop (2 months) first by consistency, got %q", genres.ByConsistency[0].Name)
	}
	if genres.ByStreamCount[0].Name != "rap" {
		t.Errorf("expected rap first by stream count, got %q", genres.ByStreamCount[0].Name)
	}
}

func TestTimeOfDayBucket(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "night"}, {5, "night"}, {6, "morning"}, {11, "morning"},
		{12, "afternoon"}, {16, "afternoon"}, {17, "evening"}, {21, "evening"},
		{22, "night"}, {23, "night"},
	}
	for _, c := range cases {
		if got := timeOfDayBucket(c.hour); got != c.want {
			t.Errorf("timeOfDayBucket(%d) = %q, want %q", c.hour, got, c.want)
		}
	}
}

func TestListeningPatterns(t *testing.T) {
	events := []archive.StreamingEvent{
		event(t, "2024-01-01 10:00", "Drake", "God's Plan", 200000), // Monday morning
		event(t, "2024-01-01 23:00", "Drake", "Nonstop", 20000),     // Monday night, skip
		event(t, "2024-01-06 14:00", "SZA", "Kill Bill", 180000),    // Saturday afternoon
	}

	patterns := listeningPatterns(events)
	if patterns.TimeOfDay["morning"] != 1 || patterns.TimeOfDay["night"] != 1 || patterns.TimeOfDay["afternoon"] != 1 {
		t.Errorf("unexpected time-of-day buckets: %v", patterns.TimeOfDay)
	}
	if patterns.DayOfWeek["Monday"] != 2 || patterns.DayOfWeek["Saturday"] != 1 {
		t.Errorf("unexpected day-of-week buckets: %v", patterns.DayOfWeek)
	}
	if len(patterns.SessionLengths) != 3 {
		t.Errorf("expected 3 session lengths, got %d", len(patterns.SessionLengths))
	}
	if patterns.SkipCounts["Drake"] != 1 {
		t.Errorf("expected 1 skip for Drake, got %d", patterns.SkipCounts["Drake"])
	}
	if patterns.SkipCounts["SZA"] != 0 {
		t.Errorf("expected no skips for SZA, got %d", patterns.SkipCounts["SZA"])
	}
}

func TestEngagementMetrics(t *testing.T) {
	events := []archive.StreamingEvent{
		event(t, "2024-01-01 10:00", "Drake", "God's Plan", 200000), // completed (>180s)
		event(t, "2024-01-01 11:00", "Drake", "Nonstop", 100000),    // not completed
		event(t, "2024-01-02 10:00", "SZA", "Kill Bill", 181000),    // completed
	}

	metrics := engagementMetrics(events)
	if metrics.TotalStreams != 3 {
		t.Errorf("expected 3 streams, got %d", metrics.TotalStreams)
	}
	if metrics.UniqueArtists != 2 || metrics.UniqueTracks != 3 {
		t.Errorf("unexpected unique counts: %d artists, %d tracks",
			metrics.UniqueArtists, metrics.UniqueTracks)
	}
	if metrics.TotalSeconds != 481 {
		t.Errorf("expected 481 total seconds, got %v", metrics.TotalSeconds)
	}
	if metrics.CompletionRates["Drake"] != 0.5 {
		t.Errorf("expected Drake completion rate 0.5, got %v", metrics.CompletionRates["Drake"])
	}
	if metrics.CompletionRates["SZA"] != 1.0 {
		t.Errorf("expected SZA completion rate 1.0, got %v", metrics.CompletionRates["SZA"])
	}
}

func TestAnalyzeEmptyArchive(t *testing.T) {
	a := Analyze(&archive.Archive{})
	if a.Engagement.TotalStreams != 0 || a.Engagement.AverageStreamLength != 0 {
		t.Errorf("empty archive should yield zero engagement, got %+v", a.Engagement)
	}
	if len(a.TimePeriods) != 0 {
		t.Errorf("expected no time periods, got %d", len(a.TimePeriods))
	}
	if len(a.Artists.ByEngagement) != 0 {
		t.Errorf("expected no ranked artists, got %d", len(a.Artists.ByEngagement))
	}
}
