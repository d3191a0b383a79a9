package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Chunk is a bounded textual summary of one year's listening, sized for
// prompt construction by a conversational layer. Each field is a
// comma-separated list of unique names in first-seen order.
type Chunk struct {
	RecentTracks string `json:"recent_tracks" yaml:"recent_tracks"`
	TopArtists   string `json:"top_artists" yaml:"top_artists"`
	TopGenres    string `json:"top_genres" yaml:"top_genres"`
}

// YearChunk extracts tracks and artists from the streaming history and genres
// from the capsule for the given year. limit caps each category; limit <= 0
// means unbounded.
func (d *ProcessedDataset) YearChunk(year int, limit int) Chunk {
	var tracks, artists, genres []string
	seenTracks := make(map[string]struct{})
	seenArtists := make(map[string]struct{})
	seenGenres := make(map[string]struct{})

	for _, e := range d.StreamingHistory {
		if e.Timestamp.Year() != year {
			continue
		}
		track := fmt.Sprintf("%s by %s", e.Track, e.Artist)
		if _, ok := seenTracks[track]; !ok {
			seenTracks[track] = struct{}{}
			tracks = append(tracks, track)
		}
		if _, ok := seenArtists[e.Artist]; !ok {
			seenArtists[e.Artist] = struct{}{}
			artists = append(artists, e.Artist)
		}
	}

	prefix := strconv.Itoa(year)
	for _, stat := range d.SoundCapsule.Stats {
		if !strings.HasPrefix(stat.Date, prefix) {
			continue
		}
		for _, g := range stat.TopGenres {
			if _, ok := seenGenres[g.Name]; !ok {
				seenGenres[g.Name] = struct{}{}
				genres = append(genres, g.Name)
			}
		}
	}

	return Chunk{
		RecentTracks: joinLimited(tracks, limit),
		TopArtists:   joinLimited(artists, limit),
		TopGenres:    joinLimited(genres, limit),
	}
}

func joinLimited(names []string, limit int) string {
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return strings.Join(names, ", ")
}
