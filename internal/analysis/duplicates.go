package analysis

import (
	"sort"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
)

// DuplicateReport separates suspect export artifacts (exact duplicates) from
// legitimate repeat plays, and lists where the same identity shows up across
// sources.
type DuplicateReport struct {
	ExactDuplicates []DuplicateGroup   `json:"exact_duplicates" yaml:"exact_duplicates"`
	RepeatedListens []DuplicateGroup   `json:"repeated_listens" yaml:"repeated_listens"`
	CrossSource     CrossSourceOverlap `json:"cross_source" yaml:"cross_source"`
}

// DuplicateGroup is a set of streaming events sharing the same normalized
// (artist, track) identity. Occurrences is the group size.
type DuplicateGroup struct {
	Artist      string `json:"artist" yaml:"artist"`
	Track       string `json:"track" yaml:"track"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`
}

// CrossSourceOverlap lists identities present in more than one source.
// The capsule's top-track lists carry no artist field, so any overlap
// involving the capsule matches on track name alone.
type CrossSourceOverlap struct {
	StreamingAndCapsule []string `json:"streaming_and_capsule" yaml:"streaming_and_capsule"`
	StreamingAndLibrary []string `json:"streaming_and_library" yaml:"streaming_and_library"`
	CapsuleAndLibrary   []string `json:"capsule_and_library" yaml:"capsule_and_library"`
}

// DetectDuplicates runs the within-source and cross-source passes. Both are
// read-only over the archive.
func DetectDuplicates(arch *archive.Archive) *DuplicateReport {
	report := &DuplicateReport{
		ExactDuplicates: []DuplicateGroup{},
		RepeatedListens: []DuplicateGroup{},
	}
	classifyPlayGroups(arch.StreamingHistory, report)
	report.CrossSource = crossSourceOverlap(arch)
	return report
}

type playIdentity struct {
	artist string
	track  string
}

type playFingerprint struct {
	endTime  string
	msPlayed int64
}

// classifyPlayGroups builds an ordered multimap from identity to event
// indices, then classifies each group of size > 1. A group containing any
// pair with identical raw end time and msPlayed is an exact duplicate; exact
// duplication suppresses the repeated-listen classification for that group.
func classifyPlayGroups(events []archive.StreamingEvent, report *DuplicateReport) {
	var order []playIdentity
	groups := make(map[playIdentity][]int)

	for i, e := range events {
		id := playIdentity{artist: e.Artist, track: e.Track}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}

	for _, id := range order {
		indices := groups[id]
		if len(indices) < 2 {
			continue
		}

		group := DuplicateGroup{
			Artist:      id.artist,
			Track:       id.track,
			Occurrences: len(indices),
		}
		if hasExactPair(events, indices) {
			report.ExactDuplicates = append(report.ExactDuplicates, group)
		} else {
			report.RepeatedListens = append(report.RepeatedListens, group)
		}
	}
}

func hasExactPair(events []archive.StreamingEvent, indices []int) bool {
	seen := make(map[playFingerprint]struct{}, len(indices))
	for _, i := range indices {
		fp := playFingerprint{endTime: events[i].EndTime, msPlayed: events[i].MsPlayed}
		if _, dup := seen[fp]; dup {
			return true
		}
		seen[fp] = struct{}{}
	}
	return false
}

func crossSourceOverlap(arch *archive.Archive) CrossSourceOverlap {
	streamingIdentities := make(map[string]struct{})
	streamingTracks := make(map[string]struct{})
	for _, e := range arch.StreamingHistory {
		streamingIdentities[identityKey(e.Artist, e.Track)] = struct{}{}
		streamingTracks[e.Track] = struct{}{}
	}

	capsuleTracks := make(map[string]struct{})
	for _, stat := range arch.SoundCapsule.Stats {
		for _, top := range stat.TopTracks {
			capsuleTracks[top.Name] = struct{}{}
		}
	}

	libraryIdentities := make(map[string]struct{})
	libraryTracks := make(map[string]struct{})
	for _, t := range arch.Library.Tracks {
		libraryIdentities[identityKey(t.Artist, t.Track)] = struct{}{}
		libraryTracks[t.Track] = struct{}{}
	}

	return CrossSourceOverlap{
		StreamingAndCapsule: intersect(streamingTracks, capsuleTracks),
		StreamingAndLibrary: intersect(streamingIdentities, libraryIdentities),
		CapsuleAndLibrary:   intersect(capsuleTracks, libraryTracks),
	}
}

func identityKey(artist, track string) string {
	return artist + " - " + track
}

// intersect returns the sorted intersection of two sets, so overlap output is
// reproducible.
func intersect(a, b map[string]struct{}) []string {
	out := []string{}
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
