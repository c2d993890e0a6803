// Package media extracts and preprocesses audio segments from a video file
// using ffmpeg.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"subshift/internal/syncerr"
)

// Filtergraph is the fixed preprocessing chain applied to every extracted
// segment: a high-pass filter to remove rumble, loudness normalization,
// spectral noise suppression, a gentle compander, and a peak limiter.
const Filtergraph = "highpass=f=80,loudnorm=I=-16:TP=-1.5:LRA=11,afftdn,compand,alimiter"

// Extractor shells out to ffmpeg to produce 16kHz mono PCM segments.
type Extractor struct {
	// FFmpegBinary is the ffmpeg executable to invoke. Defaults to "ffmpeg".
	FFmpegBinary string
}

// NewExtractor returns an Extractor using ffmpegBinary, or "ffmpeg" on the
// system PATH if ffmpegBinary is empty.
func NewExtractor(ffmpegBinary string) *Extractor {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Extractor{FFmpegBinary: ffmpegBinary}
}

// Extract extracts a startSec..startSec+durationSec segment from source into
// a mono 16kHz WAV file at dest, applying Filtergraph. Wraps failures with
// syncerr.ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, source string, startSec, durationSec float64, dest string) error {
	if durationSec <= 0 {
		return fmt.Errorf("%w: invalid duration %v", syncerr.ErrExtractionFailed, durationSec)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-af", Filtergraph,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	cmd := exec.CommandContext(ctx, e.FFmpegBinary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg: %w: %s", syncerr.ErrExtractionFailed, err, strings.TrimSpace(string(output)))
	}
	info, err := os.Stat(dest)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: empty output segment", syncerr.ErrExtractionFailed)
	}
	return nil
}

// Duration probes source with ffprobe and returns its duration in seconds.
func Duration(ctx context.Context, ffprobeBinary, source string) (float64, error) {
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		source,
	}
	cmd := exec.CommandContext(ctx, ffprobeBinary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %w", syncerr.ErrExtractionFailed, err)
	}
	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("%w: ffprobe: unparseable duration %q", syncerr.ErrExtractionFailed, string(output))
	}
	return seconds, nil
}
