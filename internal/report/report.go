// Package report renders human-readable synchronization summaries.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"subshift/internal/align"
	"subshift/internal/offset"
	"subshift/internal/subtitle"
)

// Sample describes one sample's fate through the alignment stage, whether or
// not it ended up in the accepted match list.
type Sample struct {
	Index      int
	StartTime  float64
	Minute     int
	Similarity float64
	Accepted   bool
}

// Summary captures everything needed to render a run's final report.
type Summary struct {
	RunID          string
	Samples        []Sample
	Points         []offset.Point
	Function       offset.Function
	AdaptiveFired  bool
	RefinementFired bool
	SamplesTotal   int
	MatchesTotal   int
	SDHRemoved     int
	DryRun         bool
}

// FromMatches builds the per-sample rows of a Summary from a set of samples
// and the matches the aligner accepted for them.
func FromMatches(samples []align.Sample, matches []align.Match) []Sample {
	accepted := make(map[int]align.Match, len(matches))
	for _, m := range matches {
		accepted[m.SampleIndex] = m
	}

	rows := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if m, ok := accepted[s.Index]; ok {
			rows = append(rows, Sample{
				Index:      s.Index,
				StartTime:  s.StartTime,
				Minute:     m.Minute,
				Similarity: m.Similarity,
				Accepted:   true,
			})
			continue
		}
		rows = append(rows, Sample{Index: s.Index, StartTime: s.StartTime, Accepted: false})
	}
	return rows
}

// Render renders the full report: sample table, offset point table, and a
// one-line summary.
func Render(summary Summary) string {
	var out string
	out += renderSamples(summary.Samples)
	out += "\n"
	out += renderPoints(summary.Points)
	out += "\n"
	out += renderSummaryLine(summary)
	return out
}

// tableStyle picks a plain, copy-paste-friendly border when stdout isn't a
// real terminal (redirected to a file or piped), and a rounded one otherwise.
func tableStyle() table.Style {
	if isTerminal(os.Stdout) {
		return table.StyleRounded
	}
	return table.StyleDefault
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSamples(samples []Sample) string {
	tw := table.NewWriter()
	tw.SetStyle(tableStyle())
	tw.AppendHeader(table.Row{"sample", "start", "minute", "similarity", "status"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignLeft},
	})

	for _, s := range samples {
		status := "rejected"
		minute := "-"
		similarity := "-"
		if s.Accepted {
			status = "accepted"
			minute = strconv.Itoa(s.Minute)
			similarity = strconv.FormatFloat(s.Similarity, 'f', 3, 64)
		}
		tw.AppendRow(table.Row{s.Index, subtitle.FormatTimestamp(s.StartTime), minute, similarity, status})
	}
	return tw.Render()
}

func renderPoints(points []offset.Point) string {
	tw := table.NewWriter()
	tw.SetStyle(tableStyle())
	tw.AppendHeader(table.Row{"time", "delta", "weight"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	for _, p := range points {
		tw.AppendRow(table.Row{
			subtitle.FormatTimestamp(p.Time),
			strconv.FormatFloat(p.Delta, 'f', 3, 64),
			strconv.FormatFloat(p.Weight, 'f', 3, 64),
		})
	}
	return tw.Render()
}

func renderSummaryLine(summary Summary) string {
	rate := 0.0
	if summary.SamplesTotal > 0 {
		rate = float64(summary.MatchesTotal) / float64(summary.SamplesTotal)
	}
	line := fmt.Sprintf(
		"run=%s mode=%s variance=%.3f matches=%d/%d (%.0f%%) adaptive=%t refined=%t",
		summary.RunID, summary.Function.Mode, summary.Function.Variance, summary.MatchesTotal, summary.SamplesTotal,
		rate*100, summary.AdaptiveFired, summary.RefinementFired,
	)
	if summary.SDHRemoved > 0 {
		line += fmt.Sprintf(" sdh_removed=%d", summary.SDHRemoved)
	}
	if summary.DryRun {
		line += " (dry-run, no files written)"
	}
	return line
}
