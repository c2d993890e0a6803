package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"subshift/internal/syncerr"
)

func runSubshift(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMissingRequiredFlagsIsUsageError(t *testing.T) {
	_, _, err := runSubshift(t, nil)
	if err == nil {
		t.Fatal("expected usage error for missing --media/--sub")
	}
	if syncerr.ExitCode(err) != 2 {
		t.Fatalf("expected usage exit code 2, got %d", syncerr.ExitCode(err))
	}
}

func TestMissingAPIKeyIsUsageError(t *testing.T) {
	dir := t.TempDir()
	subPath := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(subPath, []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runSubshift(t, map[string]string{"OPENAI_API_KEY": ""},
		"--media", filepath.Join(dir, "movie.mkv"),
		"--sub", subPath,
		"--api", "whisper",
	)
	if err == nil {
		t.Fatal("expected usage error when OPENAI_API_KEY is unset")
	}
	if syncerr.ExitCode(err) != 2 {
		t.Fatalf("expected usage exit code 2, got %d", syncerr.ExitCode(err))
	}
}

func TestUnsupportedAPIFlagIsUsageError(t *testing.T) {
	dir := t.TempDir()
	subPath := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(subPath, []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runSubshift(t, nil,
		"--media", filepath.Join(dir, "movie.mkv"),
		"--sub", subPath,
		"--api", "deepgram",
	)
	if err == nil {
		t.Fatal("expected usage error for unsupported --api value")
	}
	if syncerr.ExitCode(err) != 2 {
		t.Fatalf("expected usage exit code 2, got %d", syncerr.ExitCode(err))
	}
}

func TestFallbackDurationHeuristic(t *testing.T) {
	if got := fallbackDuration("Show.Name.S02E04.1080p.mkv"); got <= 0 {
		t.Fatalf("expected a positive TV fallback duration, got %v", got)
	}
	if got := fallbackDuration("Some Movie (2020).mkv"); got <= 0 {
		t.Fatalf("expected a positive film fallback duration, got %v", got)
	}
	if fallbackDuration("Show.Name.S02E04.1080p.mkv") == fallbackDuration("Some Movie (2020).mkv") {
		t.Fatal("expected TV and film fallback durations to differ")
	}
}
