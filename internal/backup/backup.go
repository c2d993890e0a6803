// Package backup copies the original subtitle file aside, verified, before
// the rewriter overwrites anything.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"subshift/internal/fileutil"
	"subshift/internal/syncerr"
	"subshift/internal/textutil"
)

// Record describes a completed backup.
type Record struct {
	OriginalPath string
	BackupPath   string
}

// timestampLayout avoids colons so the resulting filename is safe on every
// filesystem this tool is likely to run on.
const timestampLayout = "20060102T150405Z"

// Create copies originalPath into backupDir (a "backup/" directory sibling
// to originalPath if backupDir is empty), named "<stem>.<timestamp>.srt",
// verified by SHA-256 and byte count. now is injected so callers can make
// backup naming deterministic in tests.
func Create(originalPath string, backupDir string, now time.Time) (Record, error) {
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(originalPath), "backup")
	}

	lock := flock.New(filepath.Join(backupDir, ".lock"))
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return Record{}, fmt.Errorf("%w: create backup dir: %w", syncerr.ErrInternalInvariant, err)
	}
	if err := lock.Lock(); err != nil {
		return Record{}, fmt.Errorf("%w: lock backup dir: %w", syncerr.ErrInternalInvariant, err)
	}
	defer lock.Unlock()

	base := filepath.Base(originalPath)
	ext := filepath.Ext(base)
	stem := textutil.SanitizeFileName(strings.TrimSuffix(base, ext))
	name := fmt.Sprintf("%s.%s%s", stem, now.UTC().Format(timestampLayout), ext)
	backupPath := filepath.Join(backupDir, name)

	if err := fileutil.CopyFileVerified(originalPath, backupPath); err != nil {
		return Record{}, fmt.Errorf("%w: backup copy: %w", syncerr.ErrInternalInvariant, err)
	}

	return Record{OriginalPath: originalPath, BackupPath: backupPath}, nil
}
