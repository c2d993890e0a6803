package engine

import (
	"sort"

	"subshift/internal/align"
)

// mergeMatches combines two passes' matches, collapsing any pair whose
// sample start times fall within dedupeWindowSeconds of each other into the
// one with higher similarity. The result is sorted by sample start time.
func mergeMatches(first, second []align.Match) []align.Match {
	combined := make([]align.Match, 0, len(first)+len(second))
	combined = append(combined, first...)
	combined = append(combined, second...)
	sort.Slice(combined, func(i, j int) bool { return combined[i].SampleStart < combined[j].SampleStart })

	merged := make([]align.Match, 0, len(combined))
	for _, m := range combined {
		if i := closeMatchIndex(merged, m); i >= 0 {
			if m.Similarity > merged[i].Similarity {
				merged[i] = m
			}
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

func closeMatchIndex(existing []align.Match, candidate align.Match) int {
	for i, m := range existing {
		delta := m.SampleStart - candidate.SampleStart
		if delta < 0 {
			delta = -delta
		}
		if delta <= dedupeWindowSeconds {
			return i
		}
	}
	return -1
}
