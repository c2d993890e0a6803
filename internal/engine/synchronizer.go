// Package engine orchestrates the synchronization engine: it samples audio,
// fills transcripts through a bounded worker pool, aligns samples against
// the subtitle's minute index, estimates an offset function, and drives the
// adaptive-threshold and multi-pass refinement controllers around it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"subshift/internal/align"
	"subshift/internal/backup"
	"subshift/internal/logging"
	"subshift/internal/offset"
	"subshift/internal/rewrite"
	"subshift/internal/sampler"
	"subshift/internal/sdh"
	"subshift/internal/subtitle"
	"subshift/internal/syncerr"
	"subshift/internal/transcribe"
)

// Options bounds and tunes one synchronization run. Duration must be
// resolved by the caller (via an extraction adapter probe or, failing that,
// a filename-based heuristic) before Run is called — the core engine never
// guesses at media length itself.
type Options struct {
	MediaPath           string
	SubtitlePath        string
	Duration            float64
	Samples             int
	WindowMinutes       int
	Threshold           float64
	MinChars            int
	FanOut              int
	Seed                uint64
	SampleDurationSec   float64
	StrideSec           float64
	RemoveSDH           bool
	DryRun              bool
	OutputPath          string
	BackupDir           string
}

// Result reports everything the CLI/report layer needs after a run.
type Result struct {
	RunID            string
	Samples          []align.Sample
	Matches          []align.Match
	Function         offset.Function
	AdaptiveFired    bool
	RefinementFired  bool
	SDHStats         sdh.Stats
	Backup           backup.Record
	OutputPath       string
	Written          bool
}

// Extractor is the audio-extraction capability the engine depends on.
// *media.Extractor satisfies it; tests supply a stub instead of shelling out
// to ffmpeg.
type Extractor interface {
	Extract(ctx context.Context, source string, startSec, durationSec float64, dest string) error
}

// Synchronizer wires together the adapters the engine needs and exposes one
// entry point, Run.
type Synchronizer struct {
	Extractor   Extractor
	Transcriber transcribe.Transcriber
	Logger      *slog.Logger
}

// New constructs a Synchronizer. A nil logger is replaced with a no-op one.
func New(extractor Extractor, transcriber transcribe.Transcriber, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synchronizer{Extractor: extractor, Transcriber: transcriber, Logger: logger}
}

// Run executes the full initial → adapt → refine → emit pipeline against
// subs, returning a Result describing what happened. It never writes
// anything when opts.DryRun is set.
func (s *Synchronizer) Run(ctx context.Context, subs *subtitle.Subtitles, opts Options) (Result, error) {
	runID := uuid.NewString()
	logger := logging.NewComponentLogger(s.Logger, "synchronizer").With(logging.String("run_id", runID))

	workDir, err := os.MkdirTemp("", "subshift-*")
	if err != nil {
		return Result{}, syncerr.Wrap(syncerr.ErrInternalInvariant, "synchronizer", "init", "create temp dir", err)
	}
	defer os.RemoveAll(workDir)

	initialCtx := logging.WithPass(ctx, "initial")
	times := sampler.Pick(opts.Duration, opts.Samples, opts.Seed, opts.StrideSec, opts.SampleDurationSec)
	fallback := sampler.Pick(opts.Duration, opts.Samples*2, opts.Seed^1, opts.StrideSec, opts.SampleDurationSec)

	samples, err := runSamplePool(initialCtx, s.Extractor, s.Transcriber, opts.MediaPath, workDir, times, fallback, opts.SampleDurationSec, opts.FanOut, logger)
	if err != nil {
		return Result{}, syncerr.Wrap(syncerr.ErrExtractionFailed, "synchronizer", "initial-pass", "sample pool", err)
	}

	threshold := opts.Threshold
	matches := align.Align(subs, samples, align.Options{WindowMinutes: opts.WindowMinutes, Threshold: threshold, MinChars: opts.MinChars})

	rate := successRate(len(matches), len(samples))
	adaptiveFired := false
	if shouldAdaptThreshold(rate) {
		adaptiveFired = true
		for k := 1; k <= adaptiveMaxSteps; k++ {
			threshold = thresholdForStep(opts.Threshold, k, opts.Samples)
			matches = align.Align(subs, samples, align.Options{WindowMinutes: opts.WindowMinutes, Threshold: threshold, MinChars: opts.MinChars})
			rate = successRate(len(matches), len(samples))
			if rate >= adaptiveTargetRate {
				break
			}
		}
	}

	fn := offset.Estimate(toPoints(matches))
	refinementFired := false

	if shouldRefine(rate, math.Sqrt(fn.Variance)) {
		refined, refinedFn, ok, err := s.refine(ctx, subs, opts, samples, matches, threshold, fn, workDir, logger)
		if err != nil {
			return Result{}, syncerr.Wrap(syncerr.ErrExtractionFailed, "synchronizer", "refine-pass", "sample pool", err)
		}
		if ok {
			matches = refined
			fn = refinedFn
			refinementFired = true
		}
	}

	logging.WithContext(ctx, logger).Info("synchronization complete",
		"samples", len(samples), "matches", len(matches), "mode", fn.Mode.String(),
		"variance", fn.Variance, "adaptive", adaptiveFired, "refined", refinementFired)

	if len(matches) == 0 {
		return Result{RunID: runID, Samples: samples, Matches: matches, Function: fn, AdaptiveFired: adaptiveFired, RefinementFired: refinementFired},
			fmt.Errorf("%w: 0 of %d samples matched", syncerr.ErrInsufficientMatches, len(samples))
	}

	result := Result{
		RunID:           runID,
		Samples:         samples,
		Matches:         matches,
		Function:        fn,
		AdaptiveFired:   adaptiveFired,
		RefinementFired: refinementFired,
		OutputPath:      opts.OutputPath,
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.DryRun {
		return result, nil
	}

	record, err := backup.Create(opts.SubtitlePath, opts.BackupDir, time.Now())
	if err != nil {
		return result, err
	}
	result.Backup = record

	corrected := rewrite.Apply(subs.Entries, fn)
	if opts.RemoveSDH {
		cleaned, stats := sdh.Clean(corrected)
		corrected = cleaned
		result.SDHStats = stats
	}
	if err := rewrite.Write(opts.OutputPath, corrected); err != nil {
		return result, syncerr.Wrap(syncerr.ErrInternalInvariant, "synchronizer", "rewrite", "write corrected subtitle", err)
	}
	result.Written = true

	return result, nil
}

func (s *Synchronizer) refine(
	ctx context.Context,
	subs *subtitle.Subtitles,
	opts Options,
	firstSamples []align.Sample,
	firstMatches []align.Match,
	threshold float64,
	firstFn offset.Function,
	workDir string,
	logger *slog.Logger,
) ([]align.Match, offset.Function, bool, error) {
	refineCtx := logging.WithPass(ctx, "refine")
	n := refinementSampleCount(opts.Samples)
	times := sampler.Pick(opts.Duration, n, opts.Seed+1, opts.StrideSec, opts.SampleDurationSec)
	fallback := sampler.Pick(opts.Duration, n*2, opts.Seed+2, opts.StrideSec, opts.SampleDurationSec)

	samples, err := runSamplePool(refineCtx, s.Extractor, s.Transcriber, opts.MediaPath, workDir, times, fallback, opts.SampleDurationSec, opts.FanOut, logger)
	if err != nil {
		if isFatal(err) {
			return nil, offset.Function{}, false, err
		}
		return nil, offset.Function{}, false, nil
	}

	refinedThreshold := threshold - refinementThresholdDrop
	secondMatches := align.Align(subs, samples, align.Options{WindowMinutes: opts.WindowMinutes, Threshold: refinedThreshold, MinChars: opts.MinChars})

	merged := mergeMatches(firstMatches, secondMatches)
	mergedFn := offset.Estimate(toPoints(merged))

	if !varianceImproved(firstFn.Variance, mergedFn.Variance) {
		logging.WithContext(refineCtx, logger).Info("rolling back refinement pass: variance not improved", "before", firstFn.Variance, "after", mergedFn.Variance)
		return nil, offset.Function{}, false, nil
	}
	return merged, mergedFn, true, nil
}

func toPoints(matches []align.Match) []offset.Point {
	points := make([]offset.Point, 0, len(matches))
	for _, m := range matches {
		points = append(points, offset.Point{
			Time:   m.SampleStart,
			Delta:  60*float64(m.Minute) - m.SampleStart,
			Weight: m.Similarity,
		})
	}
	return points
}
