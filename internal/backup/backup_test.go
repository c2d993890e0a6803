package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCreateCopiesVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(src, []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	record, err := Create(src, "", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(record.BackupPath)
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Fatalf("backup content mismatch")
	}
	if filepath.Dir(record.BackupPath) != filepath.Join(dir, "backup") {
		t.Fatalf("expected backup in sibling backup/ dir, got %q", record.BackupPath)
	}
}

func TestCreateHonorsExplicitBackupDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(src, []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(dir, "elsewhere")
	record, err := Create(src, explicit, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(record.BackupPath) != explicit {
		t.Fatalf("expected backup in %q, got %q", explicit, record.BackupPath)
	}
}
