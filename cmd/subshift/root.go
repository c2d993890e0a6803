package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subshift/internal/config"
	"subshift/internal/engine"
	"subshift/internal/logging"
	"subshift/internal/media"
	"subshift/internal/report"
	"subshift/internal/subtitle"
	"subshift/internal/syncerr"
	"subshift/internal/transcribe"
)

// flags holds every persistent flag's destination, mirroring cobra's usual
// pattern of binding into local variables the root command closes over.
type flags struct {
	media               string
	sub                 string
	api                 string
	samples             int
	searchWindow        int
	similarityThreshold float64
	minChars            int
	debug               bool
	dryRun              bool
	configPath          string
	fanOut              int
	backupDir           string
	removeSDH           bool
	logFormat           string
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "subshift",
		Short:         "Corrects subtitle/video timing drift using audio-transcription alignment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynchronize(cmd.Context(), f)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.media, "media", "", "Path to the video file")
	pf.StringVar(&f.sub, "sub", "", "Path to the SRT subtitle file")
	pf.StringVar(&f.api, "api", "", "Transcription backend: whisper or google")
	pf.IntVar(&f.samples, "samples", 0, "Number of audio samples to draw (0 = config default)")
	pf.IntVar(&f.searchWindow, "search-window", 0, "Alignment search window in minutes (0 = config default)")
	pf.Float64Var(&f.similarityThreshold, "similarity-threshold", 0, "Minimum accepted similarity, 0..1 (0 = config default)")
	pf.IntVar(&f.minChars, "min-chars", 0, "Minimum eligible bucket length in characters (0 = config default)")
	pf.BoolVar(&f.debug, "debug", false, "Enable debug-level logging")
	pf.BoolVar(&f.dryRun, "dry-run", false, "Report what would change without writing any file")
	pf.StringVar(&f.configPath, "config", "", "Path to a TOML configuration file")
	pf.IntVar(&f.fanOut, "fan-out", 0, "Concurrent extraction/transcription workers (0 = config default)")
	pf.StringVar(&f.backupDir, "backup-dir", "", "Directory for subtitle backups (default: sibling backup/ directory)")
	pf.BoolVar(&f.removeSDH, "remove-sdh", false, "Strip sound-description/speaker-label cues from the corrected output")
	pf.StringVar(&f.logFormat, "log-format", "", "Log rendering: console or json (empty = config default)")

	return rootCmd
}

func runSynchronize(ctx context.Context, f *flags) error {
	if f.media == "" || f.sub == "" {
		return fmt.Errorf("%w: --media and --sub are required", syncerr.ErrUsage)
	}

	configPath := f.configPath
	if configPath == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			configPath = p
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", syncerr.ErrUsage, err)
	}
	applyFlagOverrides(cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", syncerr.ErrUsage, err)
	}

	transcriber, err := buildTranscriber(cfg)
	if err != nil {
		return err
	}
	transcriber = transcribe.WithRetry(transcriber, transcribe.RetryConfig{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Retry.BackoffBaseSeconds) * time.Second,
	})

	subs, err := subtitle.Parse(f.sub)
	if err != nil {
		return err
	}

	extractor := media.NewExtractor("")
	duration, err := media.Duration(ctx, "", f.media)
	if err != nil {
		logging.WithContext(ctx, logger).Warn("ffprobe duration failed, falling back to filename heuristic", "error", err)
		duration = fallbackDuration(f.media)
	}

	outputPath := correctedOutputPath(f.sub)
	synchronizer := engine.New(extractor, transcriber, logger)

	opts := engine.Options{
		MediaPath:         f.media,
		SubtitlePath:      f.sub,
		Duration:          duration,
		Samples:           cfg.Sampling.Samples,
		WindowMinutes:     cfg.Sampling.SearchWindowMinutes,
		Threshold:         cfg.Sampling.SimilarityThreshold,
		MinChars:          cfg.Sampling.MinChars,
		FanOut:            cfg.Concurrency.FanOut,
		Seed:              rand.Uint64(),
		SampleDurationSec: float64(cfg.Sampling.SampleDurationSeconds),
		StrideSec:         float64(cfg.Sampling.StrideSeconds),
		RemoveSDH:         cfg.SDH.Remove,
		DryRun:            f.dryRun,
		OutputPath:        outputPath,
		BackupDir:         cfg.Backup.Dir,
	}

	result, err := synchronizer.Run(ctx, subs, opts)
	printReport(result, opts)
	return err
}

func printReport(result engine.Result, opts engine.Options) {
	summary := report.Summary{
		RunID:           result.RunID,
		Samples:         report.FromMatches(result.Samples, result.Matches),
		Points:          result.Function.Points,
		Function:        result.Function,
		AdaptiveFired:   result.AdaptiveFired,
		RefinementFired: result.RefinementFired,
		SamplesTotal:    len(result.Samples),
		MatchesTotal:    len(result.Matches),
		SDHRemoved:      result.SDHStats.RemovedCues,
		DryRun:          opts.DryRun,
	}
	fmt.Println(report.Render(summary))
}

func applyFlagOverrides(cfg *config.Config, f *flags) {
	if f.api != "" {
		cfg.ASR.API = f.api
	}
	if f.samples > 0 {
		cfg.Sampling.Samples = f.samples
	}
	if f.searchWindow > 0 {
		cfg.Sampling.SearchWindowMinutes = f.searchWindow
	}
	if f.similarityThreshold > 0 {
		cfg.Sampling.SimilarityThreshold = f.similarityThreshold
	}
	if f.minChars > 0 {
		cfg.Sampling.MinChars = f.minChars
	}
	if f.fanOut > 0 {
		cfg.Concurrency.FanOut = f.fanOut
	}
	if f.backupDir != "" {
		cfg.Backup.Dir = f.backupDir
	}
	if f.removeSDH {
		cfg.SDH.Remove = true
	}
	if f.logFormat != "" {
		cfg.Logging.Format = f.logFormat
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
}

func buildTranscriber(cfg *config.Config) (transcribe.Transcriber, error) {
	switch strings.ToLower(cfg.ASR.API) {
	case "whisper":
		key := os.Getenv(cfg.ASR.OpenAIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: %s is not set", syncerr.ErrUsage, cfg.ASR.OpenAIKeyEnv)
		}
		return transcribe.NewWhisperClient(key), nil
	case "google":
		key := os.Getenv(cfg.ASR.GoogleKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: %s is not set", syncerr.ErrUsage, cfg.ASR.GoogleKeyEnv)
		}
		return transcribe.NewGoogleClient(key), nil
	default:
		return nil, fmt.Errorf("%w: unsupported --api %q", syncerr.ErrUsage, cfg.ASR.API)
	}
}

func correctedOutputPath(subPath string) string {
	ext := filepath.Ext(subPath)
	stem := strings.TrimSuffix(subPath, ext)
	return stem + ".corrected" + ext
}
