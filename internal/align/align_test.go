package align

import (
	"os"
	"path/filepath"
	"testing"

	"subshift/internal/subtitle"
)

func TestSimilarityIdenticalStrings(t *testing.T) {
	if got := similarity("hello there", "hello there"); got != 1 {
		t.Fatalf("got %v", got)
	}
}

func TestSimilarityCompletelyDifferent(t *testing.T) {
	got := similarity("aaaa", "bbbb")
	if got != 0 {
		t.Fatalf("got %v", got)
	}
}

func writeSubs(t *testing.T, content string) *subtitle.Subtitles {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.srt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	subs, err := subtitle.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	return subs
}

func TestAlignAcceptsExactMatch(t *testing.T) {
	subs := writeSubs(t, "1\n00:05:00,000 --> 00:05:03,000\nthe quick brown fox jumps over the lazy dog again today\n")
	samples := []Sample{{Index: 1, StartTime: 300, Transcript: "the quick brown fox jumps over the lazy dog again today"}}
	matches := Align(subs, samples, Options{WindowMinutes: 20, Threshold: 0.65, MinChars: 40})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Minute != 5 {
		t.Fatalf("expected minute 5, got %d", matches[0].Minute)
	}
}

func TestAlignDropsBelowThreshold(t *testing.T) {
	subs := writeSubs(t, "1\n00:05:00,000 --> 00:05:03,000\nthe quick brown fox jumps over the lazy dog again today\n")
	samples := []Sample{{Index: 1, StartTime: 300, Transcript: "completely unrelated text about something else entirely"}}
	matches := Align(subs, samples, Options{WindowMinutes: 20, Threshold: 0.65, MinChars: 40})
	if len(matches) != 0 {
		t.Fatalf("expected 0 matches, got %d", len(matches))
	}
}

func TestAlignRespectsMinChars(t *testing.T) {
	subs := writeSubs(t, "1\n00:05:00,000 --> 00:05:01,000\nhi\n")
	samples := []Sample{{Index: 1, StartTime: 300, Transcript: "hi"}}
	matches := Align(subs, samples, Options{WindowMinutes: 20, Threshold: 0.1, MinChars: 40})
	if len(matches) != 0 {
		t.Fatalf("expected bucket below MinChars to be ineligible, got %d matches", len(matches))
	}
}
