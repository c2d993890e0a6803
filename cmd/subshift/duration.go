package main

import (
	"path/filepath"
	"regexp"
	"strings"

	"subshift/internal/sampler"
)

// tvFilenamePattern matches common TV episode markers (S01E03, 1x03, etc.)
// so a duration probe failure can still pick a sane fallback.
var tvFilenamePattern = regexp.MustCompile(`(?i)s\d{1,2}e\d{1,3}|\b\d{1,2}x\d{1,3}\b`)

// fallbackDuration guesses a duration from filename hints when ffprobe
// cannot determine one. TV episodes default to sampler.FallbackTVSeconds;
// everything else is assumed to be a film.
func fallbackDuration(mediaPath string) float64 {
	name := strings.ToLower(filepath.Base(mediaPath))
	if tvFilenamePattern.MatchString(name) {
		return sampler.FallbackTVSeconds
	}
	return sampler.FallbackFilmSeconds
}
