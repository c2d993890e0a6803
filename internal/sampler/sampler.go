// Package sampler chooses deterministic audio sample start times across a
// video's duration.
package sampler

import (
	"math/rand/v2"
	"sort"
)

// DefaultStride is the default spacing, in seconds, between candidate sample
// start times, used when a caller does not have a configured stride.
const DefaultStride = 300

// DefaultSampleDuration is the default length, in seconds, of each extracted
// audio sample, used when a caller does not have a configured duration.
const DefaultSampleDuration = 60

// FallbackTVSeconds and FallbackFilmSeconds are heuristic durations used by
// callers that cannot determine a video's actual length.
const (
	FallbackTVSeconds   = 1200
	FallbackFilmSeconds = 5400
)

// Pick returns up to n distinct sample start times drawn without replacement
// from {k*strideSec | 0 <= k*strideSec+sampleDurationSec <= durationSec}, in
// ascending order. If fewer than n candidates exist, all candidates are
// returned. Deterministic given seed. A non-positive strideSec or
// sampleDurationSec falls back to DefaultStride/DefaultSampleDuration.
func Pick(durationSec float64, n int, seed uint64, strideSec, sampleDurationSec float64) []float64 {
	candidates := candidateTimes(durationSec, strideSec, sampleDurationSec)
	if n >= len(candidates) {
		return candidates
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	shuffled := append([]float64(nil), candidates...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	picked := shuffled[:n]

	out := append([]float64(nil), picked...)
	sort.Float64s(out)
	return out
}

func candidateTimes(durationSec, strideSec, sampleDurationSec float64) []float64 {
	if strideSec <= 0 {
		strideSec = DefaultStride
	}
	if sampleDurationSec <= 0 {
		sampleDurationSec = DefaultSampleDuration
	}
	var out []float64
	for k := 0; ; k++ {
		t := float64(k) * strideSec
		if t+sampleDurationSec > durationSec {
			break
		}
		out = append(out, t)
	}
	return out
}
