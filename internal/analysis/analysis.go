package analysis

import (
	"sort"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
)

// Analyze computes the full derived-statistics block for a cleaned archive.
func Analyze(arch *archive.Archive) *Analysis {
	return &Analysis{
		TimePeriods: timePeriodStats(arch.StreamingHistory),
		Artists:     rankArtists(arch),
		Tracks:      rankTracks(arch),
		Genres:      rankGenres(arch.SoundCapsule.Stats),
		Patterns:    listeningPatterns(arch.StreamingHistory),
		Engagement:  engagementMetrics(arch.StreamingHistory),
	}
}

// timePeriodStats groups streaming events by calendar month of their end
// timestamp.
func timePeriodStats(events []archive.StreamingEvent) map[string]*PeriodStats {
	periods := make(map[string]*PeriodStats)
	for _, e := range events {
		month := e.Timestamp.Format("2006-01")
		p := periods[month]
		if p == nil {
			p = &PeriodStats{
				Artists: make(map[string]int64),
				Tracks:  make(map[string]int64),
			}
			periods[month] = p
		}
		p.StreamCount++
		p.SecondsPlayed += e.SecondsPlayed
		p.Artists[e.Artist]++
		p.Tracks[e.Track]++
	}
	for _, p := range periods {
		if p.StreamCount > 0 {
			p.AverageStreamLength = p.SecondsPlayed / float64(p.StreamCount)
		}
	}
	return periods
}

// accumulator gathers per-name volume while remembering first-seen order,
// which breaks ranking ties.
type accumulator struct {
	order []string
	stats map[string]*EntityStat
}

func newAccumulator() *accumulator {
	return &accumulator{stats: make(map[string]*EntityStat)}
}

func (a *accumulator) add(name string, streams int64, seconds float64) {
	s := a.stats[name]
	if s == nil {
		s = &EntityStat{Name: name}
		a.stats[name] = s
		a.order = append(a.order, name)
	}
	s.StreamCount += streams
	s.SecondsPlayed += seconds
}

func (a *accumulator) entities() []EntityStat {
	out := make([]EntityStat, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, *a.stats[name])
	}
	return out
}

func rankArtists(arch *archive.Archive) Rankings {
	acc := newAccumulator()
	for _, e := range arch.StreamingHistory {
		acc.add(e.Artist, 1, e.SecondsPlayed)
	}
	// Capsule months measure the same listening separately; summing
	// double-counts on purpose.
	for _, stat := range arch.SoundCapsule.Stats {
		for _, top := range stat.TopArtists {
			acc.add(top.Name, top.StreamCount, top.SecondsPlayed)
		}
	}
	return rank(acc.entities())
}

func rankTracks(arch *archive.Archive) Rankings {
	acc := newAccumulator()
	for _, e := range arch.StreamingHistory {
		acc.add(e.Track, 1, e.SecondsPlayed)
	}
	for _, stat := range arch.SoundCapsule.Stats {
		for _, top := range stat.TopTracks {
			acc.add(top.Name, top.StreamCount, top.SecondsPlayed)
		}
	}
	return rank(acc.entities())
}

// rank produces the three orderings. Sorts are stable over the first-seen
// order of entities, so identical keys rank in insertion order.
func rank(entities []EntityStat) Rankings {
	byTime := make([]EntityStat, len(entities))
	copy(byTime, entities)
	sort.SliceStable(byTime, func(i, j int) bool {
		return byTime[i].SecondsPlayed > byTime[j].SecondsPlayed
	})

	byCount := make([]EntityStat, len(entities))
	copy(byCount, entities)
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].StreamCount > byCount[j].StreamCount
	})

	byEngagement := make([]EntityStat, len(entities))
	copy(byEngagement, entities)
	sort.SliceStable(byEngagement, func(i, j int) bool {
		return byEngagement[i].Engagement() > byEngagement[j].Engagement()
	})

	return Rankings{
		ByTotalTime:   capEntities(byTime, MaxRankedEntities),
		ByStreamCount: capEntities(byCount, MaxRankedEntities),
		ByEngagement:  capEntities(byEngagement, MaxRankedEntities),
	}
}

func capEntities(entities []EntityStat, limit int) []EntityStat {
	if len(entities) > limit {
		entities = entities[:limit]
	}
	return entities
}

// rankGenres accumulates capsule top-genre lists. Streaming history carries
// no genre information, so the capsule is the only source.
func rankGenres(stats []archive.MonthlyStat) GenreRankings {
	type genreAcc struct {
		stat   GenreStat
		months map[string]struct{}
	}
	var order []string
	accs := make(map[string]*genreAcc)

	for _, month := range stats {
		for _, top := range month.TopGenres {
			g := accs[top.Name]
			if g == nil {
				g = &genreAcc{
					stat:   GenreStat{Name: top.Name},
					months: make(map[string]struct{}),
				}
				accs[top.Name] = g
				order = append(order, top.Name)
			}
			g.stat.StreamCount += top.StreamCount
			g.stat.SecondsPlayed += top.SecondsPlayed
			g.months[month.Date] = struct{}{}
		}
	}

	genres := make([]GenreStat, 0, len(order))
	for _, name := range order {
		g := accs[name]
		months := make([]string, 0, len(g.months))
		for m := range g.months {
			months = append(months, m)
		}
		sort.Strings(months)
		g.stat.Months = months
		genres = append(genres, g.stat)
	}

	byTime := make([]GenreStat, len(genres))
	copy(byTime, genres)
	sort.SliceStable(byTime, func(i, j int) bool {
		return byTime[i].SecondsPlayed > byTime[j].SecondsPlayed
	})

	byCount := make([]GenreStat, len(genres))
	copy(byCount, genres)
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].StreamCount > byCount[j].StreamCount
	})

	byConsistency := make([]GenreStat, len(genres))
	copy(byConsistency, genres)
	sort.SliceStable(byConsistency, func(i, j int) bool {
		return len(byConsistency[i].Months) > len(byConsistency[j].Months)
	})

	return GenreRankings{
		ByTotalTime:   capGenres(byTime, MaxRankedGenres),
		ByStreamCount: capGenres(byCount, MaxRankedGenres),
		ByConsistency: capGenres(byConsistency, MaxRankedGenres),
	}
}

func capGenres(genres []GenreStat, limit int) []GenreStat {
	if len(genres) > limit {
		genres = genres[:limit]
	}
	return genres
}

// timeOfDayBucket maps an hour to morning [6,12), afternoon [12,17),
// evening [17,22), or night.
func timeOfDayBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func listeningPatterns(events []archive.StreamingEvent) ListeningPatterns {
	patterns := ListeningPatterns{
		TimeOfDay:      make(map[string]int),
		DayOfWeek:      make(map[string]int),
		SessionLengths: make([]float64, 0, len(events)),
		SkipCounts:     make(map[string]int),
	}
	for _, e := range events {
		patterns.TimeOfDay[timeOfDayBucket(e.Timestamp.Hour())]++
		patterns.DayOfWeek[e.Timestamp.Weekday().String()]++
		patterns.SessionLengths = append(patterns.SessionLengths, e.SecondsPlayed)
		if e.SecondsPlayed < SkipThresholdSeconds {
			patterns.SkipCounts[e.Artist]++
		}
	}
	return patterns
}

func engagementMetrics(events []archive.StreamingEvent) EngagementMetrics {
	metrics := EngagementMetrics{
		CompletionRates: make(map[string]float64),
	}

	artists := make(map[string]struct{})
	tracks := make(map[string]struct{})
	perArtistTotal := make(map[string]int)
	perArtistCompleted := make(map[string]int)

	for _, e := range events {
		metrics.TotalStreams++
		metrics.TotalSeconds += e.SecondsPlayed
		artists[e.Artist] = struct{}{}
		tracks[e.Track] = struct{}{}
		perArtistTotal[e.Artist]++
		if e.SecondsPlayed > CompletionThresholdSeconds {
			perArtistCompleted[e.Artist]++
		}
	}

	metrics.UniqueArtists = len(artists)
	metrics.UniqueTracks = len(tracks)
	if metrics.TotalStreams > 0 {
		metrics.AverageStreamLength = metrics.TotalSeconds / float64(metrics.TotalStreams)
	}
	for artist, total := range perArtistTotal {
		metrics.CompletionRates[artist] = float64(perArtistCompleted[artist]) / float64(total)
	}
	return metrics
}
