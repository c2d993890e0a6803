package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"subshift/internal/syncerr"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,000
Hello there, friend.

2
00:01:05,000 --> 00:01:08,000
Another line of dialogue here.
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseProducesContiguousIndices(t *testing.T) {
	path := writeTemp(t, "in.srt", sampleSRT)
	subs, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range subs.Entries {
		if e.Index != i+1 {
			t.Fatalf("entry %d has index %d", i, e.Index)
		}
		if e.Start > e.End {
			t.Fatalf("entry %d start after end", i)
		}
	}
}

func TestParseRejectsNonSRT(t *testing.T) {
	path := writeTemp(t, "in.vtt", "WEBVTT\n")
	_, err := Parse(path)
	if !errors.Is(err, syncerr.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseRejectsMalformedTiming(t *testing.T) {
	path := writeTemp(t, "bad.srt", "1\nnot a timing line\ntext\n")
	_, err := Parse(path)
	if !errors.Is(err, syncerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestBucketMatchesRecomputation(t *testing.T) {
	path := writeTemp(t, "in.srt", sampleSRT)
	subs, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	for m := range subs.buckets {
		recomputed := buildBuckets(subs.Entries)[m]
		got, _ := subs.Bucket(m)
		if got != recomputed {
			t.Fatalf("bucket %d drifted: %q vs %q", m, got, recomputed)
		}
	}
}
