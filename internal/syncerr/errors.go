// Package syncerr defines the synchronization engine's error taxonomy and
// maps it onto process exit codes.
package syncerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the taxonomy. Wrap with fmt.Errorf("%w: ...", ErrX) or
// the Wrap helper below; classify with errors.Is.
var (
	ErrUsage               = errors.New("usage error")
	ErrUnsupportedFormat   = errors.New("unsupported subtitle format")
	ErrParse               = errors.New("subtitle parse error")
	ErrExtractionFailed    = errors.New("audio extraction failed")
	ErrRetryableAPI        = errors.New("transient transcription API failure")
	ErrAuth                = errors.New("transcription authentication failure")
	ErrQuotaExceeded       = errors.New("transcription quota exceeded")
	ErrInsufficientMatches = errors.New("insufficient alignment matches")
	ErrInternalInvariant   = errors.New("internal invariant violated")
)

// ExitCode maps err to the process exit code defined by the CLI surface.
// Unrecognized errors map to 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	case errors.Is(err, ErrUnsupportedFormat):
		return 3
	case errors.Is(err, ErrParse):
		return 3
	case errors.Is(err, ErrInsufficientMatches):
		return 4
	case errors.Is(err, ErrExtractionFailed), errors.Is(err, ErrRetryableAPI),
		errors.Is(err, ErrAuth), errors.Is(err, ErrQuotaExceeded):
		return 5
	default:
		return 1
	}
}

// Wrap builds an error that carries stage/operation context while tagging it
// with marker for later classification via errors.Is.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInternalInvariant
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "synchronization failure"
	}
	return strings.Join(parts, ": ")
}
