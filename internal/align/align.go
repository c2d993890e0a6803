// Package align searches a minute-indexed subtitle model for the best
// matching bucket for each transcribed audio sample.
package align

import (
	"sort"

	"subshift/internal/subtitle"
)

// Sample is the subset of audio-sample state the Aligner needs: its index,
// start time, and transcript.
type Sample struct {
	Index      int
	StartTime  float64
	Transcript string
}

// Match is an accepted alignment between a sample and a subtitle minute
// bucket.
type Match struct {
	SampleIndex    int
	SampleStart    float64
	Minute         int
	Similarity     float64
	SubtitleText   string
	Transcript     string
}

// earlyExitMargin is the minimum similarity improvement a farther candidate
// must show over an already-accepted nearer one to keep searching.
const earlyExitMargin = 0.05

// Options bounds the search.
type Options struct {
	WindowMinutes int
	Threshold     float64
	MinChars      int
}

// Align finds at most one match per sample. Unmatched samples are dropped
// from the result. The minute index (subs) is read-only and safe to share
// across concurrent calls.
func Align(subs *subtitle.Subtitles, samples []Sample, opts Options) []Match {
	matches := make([]Match, 0, len(samples))
	for _, s := range samples {
		if m, ok := alignOne(subs, s, opts); ok {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].SampleStart < matches[j].SampleStart })
	return matches
}

func alignOne(subs *subtitle.Subtitles, s Sample, opts Options) (Match, bool) {
	m0 := int(s.StartTime) / 60
	lo := m0 - opts.WindowMinutes
	if lo < 0 {
		lo = 0
	}
	hi := m0 + opts.WindowMinutes

	candidates := subs.EntriesBetween(lo, hi, opts.MinChars)
	sort.Slice(candidates, func(i, j int) bool {
		di, dj := absInt(candidates[i]-m0), absInt(candidates[j]-m0)
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})

	var bestSim float64
	var bestMinute int
	found := false

	for _, m := range candidates {
		bucket, ok := subs.Bucket(m)
		if !ok {
			continue
		}
		sim := similarity(s.Transcript, bucket)
		if found && bestSim >= opts.Threshold && sim < bestSim+earlyExitMargin {
			break
		}
		if !found || sim > bestSim {
			bestSim = sim
			bestMinute = m
			found = true
		}
	}

	if !found || bestSim < opts.Threshold {
		return Match{}, false
	}
	bucket, _ := subs.Bucket(bestMinute)
	if len(bucket) < opts.MinChars {
		return Match{}, false
	}

	return Match{
		SampleIndex:  s.Index,
		SampleStart:  s.StartTime,
		Minute:       bestMinute,
		Similarity:   bestSim,
		SubtitleText: bucket,
		Transcript:   s.Transcript,
	}, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
