package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"subshift/internal/normalize"
	"subshift/internal/syncerr"
)

// MinChars is the default minimum normalized-text length for a minute bucket
// to be considered eligible for alignment.
const MinChars = 40

// Entry is a single subtitle cue: a 1-based index, a start/end time in
// seconds, and the untouched cue text exactly as it appeared in the file.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Subtitles is an ordered, parsed SRT file plus its minute-bucket index.
type Subtitles struct {
	Entries []Entry
	buckets map[int]string
}

// Parse reads path as an SRT file. Any other extension fails with
// syncerr.ErrUnsupportedFormat. Malformed entries fail with syncerr.ErrParse
// naming the offending line.
func Parse(path string) (*Subtitles, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".srt" {
		return nil, fmt.Errorf("%w: %s", syncerr.ErrUnsupportedFormat, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitle file: %w", err)
	}
	entries, err := parseSRT(string(data))
	if err != nil {
		return nil, err
	}
	return &Subtitles{Entries: entries, buckets: buildBuckets(entries)}, nil
}

func parseSRT(content string) ([]Entry, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(content), "\n\n")
	entries := make([]Entry, 0, len(blocks))
	lineNo := 0

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("%w: line %d: incomplete cue block", syncerr.ErrParse, lineNo+1)
		}

		indexLine := strings.TrimSpace(lines[0])
		idx, err := strconv.Atoi(indexLine)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid cue index %q", syncerr.ErrParse, lineNo+1, indexLine)
		}

		timingLine := strings.TrimSpace(lines[1])
		parts := strings.SplitN(timingLine, "-->", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %d: missing timing arrow", syncerr.ErrParse, lineNo+2)
		}
		start, err := ParseTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", syncerr.ErrParse, lineNo+2, err)
		}
		end, err := ParseTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", syncerr.ErrParse, lineNo+2, err)
		}
		if end < start {
			return nil, fmt.Errorf("%w: line %d: end before start", syncerr.ErrParse, lineNo+2)
		}

		text := strings.Join(lines[2:], "\n")
		entries = append(entries, Entry{Index: idx, Start: start, End: end, Text: text})
		lineNo += len(lines) + 1
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })
	for i := range entries {
		entries[i].Index = i + 1
	}
	return entries, nil
}

func buildBuckets(entries []Entry) map[int]string {
	byMinute := make(map[int][]string)
	minutes := make([]int, 0)
	for _, e := range entries {
		m := int(e.Start) / 60
		if _, ok := byMinute[m]; !ok {
			minutes = append(minutes, m)
		}
		byMinute[m] = append(byMinute[m], normalize.Text(e.Text))
	}
	sort.Ints(minutes)
	buckets := make(map[int]string, len(minutes))
	for _, m := range minutes {
		buckets[m] = strings.Join(byMinute[m], " ")
	}
	return buckets
}

// Bucket returns the normalized text for minute m and whether that minute is
// present in the index at all.
func (s *Subtitles) Bucket(m int) (string, bool) {
	text, ok := s.buckets[m]
	return text, ok
}

// Eligible reports whether minute m's bucket meets minChars.
func (s *Subtitles) Eligible(m int, minChars int) bool {
	text, ok := s.buckets[m]
	return ok && len(text) >= minChars
}

// EntriesBetween returns the eligible bucket minutes in [mLo, mHi], ascending.
func (s *Subtitles) EntriesBetween(mLo, mHi, minChars int) []int {
	keys := make([]int, 0)
	for m := range s.buckets {
		if m >= mLo && m <= mHi && s.Eligible(m, minChars) {
			keys = append(keys, m)
		}
	}
	sort.Ints(keys)
	return keys
}

// Duration returns the latest end timestamp across all entries.
func (s *Subtitles) Duration() float64 {
	var last float64
	for _, e := range s.Entries {
		if e.End > last {
			last = e.End
		}
	}
	return last
}
