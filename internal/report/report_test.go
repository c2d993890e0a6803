package report

import (
	"strings"
	"testing"

	"subshift/internal/align"
	"subshift/internal/offset"
)

func TestFromMatchesMarksAcceptedAndRejected(t *testing.T) {
	samples := []align.Sample{
		{Index: 0, StartTime: 0, Transcript: "a"},
		{Index: 1, StartTime: 300, Transcript: "b"},
	}
	matches := []align.Match{
		{SampleIndex: 0, SampleStart: 0, Minute: 0, Similarity: 0.9},
	}

	rows := FromMatches(samples, matches)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Accepted || rows[0].Minute != 0 {
		t.Fatalf("expected sample 0 accepted at minute 0, got %+v", rows[0])
	}
	if rows[1].Accepted {
		t.Fatalf("expected sample 1 rejected, got %+v", rows[1])
	}
}

func TestRenderIncludesSummaryLine(t *testing.T) {
	summary := Summary{
		Samples: []Sample{{Index: 0, StartTime: 0, Minute: 0, Similarity: 0.9, Accepted: true}},
		Points:  []offset.Point{{Time: 0, Delta: 5, Weight: 0.9}},
		Function: offset.Function{
			Mode:     offset.ModeUniform,
			Mean:     5,
			Variance: 0,
		},
		SamplesTotal: 16,
		MatchesTotal: 16,
	}

	out := Render(summary)
	if !strings.Contains(out, "mode=uniform") {
		t.Fatalf("expected summary line to mention mode, got %q", out)
	}
	if !strings.Contains(out, "matches=16/16") {
		t.Fatalf("expected summary line to mention match count, got %q", out)
	}
}

func TestRenderMentionsDryRun(t *testing.T) {
	out := Render(Summary{DryRun: true})
	if !strings.Contains(out, "dry-run") {
		t.Fatalf("expected dry-run marker in output, got %q", out)
	}
}
