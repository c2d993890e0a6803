// Package rewrite applies an offset function to subtitle entries and writes
// the corrected SRT.
package rewrite

import (
	"fmt"
	"os"
	"strings"

	"subshift/internal/offset"
	"subshift/internal/subtitle"
)

// MinCueDuration is the minimum gap enforced between a corrected entry's
// start and end, so a clamp at zero never collapses a cue to nothing.
const MinCueDuration = 0.5

// Apply returns corrected entries with Δ(t) applied to every timestamp,
// clamped non-negative, with MinCueDuration enforced. Cue text, whitespace,
// and ordering are preserved exactly.
func Apply(entries []subtitle.Entry, fn offset.Function) []subtitle.Entry {
	out := make([]subtitle.Entry, len(entries))
	for i, e := range entries {
		start := e.Start + fn.At(e.Start)
		if start < 0 {
			start = 0
		}
		end := e.End + fn.At(e.End)
		if end < start+MinCueDuration {
			end = start + MinCueDuration
		}
		out[i] = subtitle.Entry{Index: e.Index, Start: start, End: end, Text: e.Text}
	}
	return out
}

// Write serializes entries as an SRT file at path.
func Write(path string, entries []subtitle.Entry) error {
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d\n", e.Index)
		fmt.Fprintf(&b, "%s --> %s\n", subtitle.FormatTimestamp(e.Start), subtitle.FormatTimestamp(e.End))
		b.WriteString(e.Text)
		b.WriteString("\n")
		if i != len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
