// Package sdh optionally strips sound-description and speaker-label-only
// cues ("subtitles for the deaf and hard-of-hearing") from a corrected
// subtitle track, after alignment and rewriting.
package sdh

import (
	"subshift/internal/normalize"
	"subshift/internal/subtitle"
)

// Stats reports the effect of a cleaning pass.
type Stats struct {
	RemovedCues int
}

// Clean drops entries whose text is entirely sound description or speaker
// labels, and renumbers the remainder contiguously starting at 1.
func Clean(entries []subtitle.Entry) ([]subtitle.Entry, Stats) {
	kept := make([]subtitle.Entry, 0, len(entries))
	var stats Stats
	for _, e := range entries {
		if normalize.IsSoundDescriptionOnly(e.Text) {
			stats.RemovedCues++
			continue
		}
		kept = append(kept, e)
	}
	for i := range kept {
		kept[i].Index = i + 1
	}
	return kept, stats
}
