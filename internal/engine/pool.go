package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"subshift/internal/align"
	"subshift/internal/logging"
	"subshift/internal/syncerr"
	"subshift/internal/transcribe"
)

// sampleResult is one sample's extraction+transcription outcome, collected
// from the worker pool.
type sampleResult struct {
	sample align.Sample
	ok     bool
}

// runSamplePool extracts and transcribes every sample time concurrently,
// bounded to fanOut workers at a time, using a buffered-channel semaphore
// plus sync.WaitGroup. A failed extraction is retried once at an alternate
// time drawn from fallback; a sample that still fails is dropped, not fatal.
// A fatal transcription error (ErrAuth/ErrQuotaExceeded) aborts the whole
// pool instead of being dropped, since no further sample can succeed either.
// Samples are returned in submission order with failed ones omitted.
func runSamplePool(
	ctx context.Context,
	extractor Extractor,
	transcriber transcribe.Transcriber,
	mediaPath, workDir string,
	times []float64,
	fallback []float64,
	sampleDurationSec float64,
	fanOut int,
	logger *slog.Logger,
) ([]align.Sample, error) {
	if fanOut < 1 {
		fanOut = 1
	}

	sem := make(chan struct{}, fanOut)
	results := make([]sampleResult, len(times))

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var fatalErr error
	var fatalOnce sync.Once

	var wg sync.WaitGroup
	for i, t := range times {
		wg.Add(1)
		go func(index int, start float64) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-poolCtx.Done():
				return
			}
			defer func() { <-sem }()

			sample, err := processSample(poolCtx, extractor, transcriber, mediaPath, workDir, index, start, fallback, sampleDurationSec, logger)
			if err != nil {
				if isFatal(err) {
					fatalOnce.Do(func() {
						fatalErr = err
						cancel()
					})
				}
				return
			}
			results[index] = sampleResult{sample: sample, ok: true}
		}(i, t)
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	samples := make([]align.Sample, 0, len(results))
	for _, r := range results {
		if r.ok {
			samples = append(samples, r.sample)
		}
	}
	return samples, nil
}

// isFatal reports whether err is a transcription failure that will recur for
// every remaining sample (bad credentials, exhausted quota), as opposed to a
// per-sample failure that only affects the one sample.
func isFatal(err error) bool {
	return errors.Is(err, syncerr.ErrAuth) || errors.Is(err, syncerr.ErrQuotaExceeded)
}

func processSample(
	ctx context.Context,
	extractor Extractor,
	transcriber transcribe.Transcriber,
	mediaPath, workDir string,
	index int,
	start float64,
	fallback []float64,
	sampleDurationSec float64,
	logger *slog.Logger,
) (align.Sample, error) {
	sampleCtx := logging.WithSampleIndex(ctx, index)

	pcmPath, err := extractWithRetry(logging.WithPhase(sampleCtx, "extract"), extractor, mediaPath, workDir, index, start, fallback, sampleDurationSec, logger)
	if err != nil {
		logging.WithContext(sampleCtx, logger).Warn("extraction failed, dropping sample", "error", err)
		return align.Sample{}, err
	}
	defer os.Remove(pcmPath)

	text, err := transcriber.Transcribe(logging.WithPhase(sampleCtx, "transcribe"), pcmPath)
	if err != nil {
		if isFatal(err) {
			logging.WithContext(sampleCtx, logger).Error("transcription failed fatally, aborting run", "error", err)
		} else {
			logging.WithContext(sampleCtx, logger).Warn("transcription failed, dropping sample", "error", err)
		}
		return align.Sample{}, err
	}

	return align.Sample{Index: index, StartTime: start, Transcript: text}, nil
}

// extractWithRetry extracts a segment starting at start; on failure it
// retries exactly once at an alternate candidate time from fallback.
func extractWithRetry(
	ctx context.Context,
	extractor Extractor,
	mediaPath, workDir string,
	index int,
	start float64,
	fallback []float64,
	sampleDurationSec float64,
	logger *slog.Logger,
) (string, error) {
	dest := filepath.Join(workDir, fmt.Sprintf("sample-%d.wav", index))
	if err := extractor.Extract(ctx, mediaPath, start, sampleDurationSec, dest); err == nil {
		return dest, nil
	}

	alt := alternateStart(start, fallback)
	if alt == start {
		return "", fmt.Errorf("extraction failed at %.3fs with no alternate candidate", start)
	}
	logging.WithContext(ctx, logger).Warn("extraction failed, retrying at alternate time", "alternate_start", alt)
	if err := extractor.Extract(ctx, mediaPath, alt, sampleDurationSec, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func alternateStart(start float64, fallback []float64) float64 {
	for _, t := range fallback {
		if t != start {
			return t
		}
	}
	return start
}
