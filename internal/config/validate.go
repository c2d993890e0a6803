package config

import (
	"fmt"
	"strings"

	"subshift/internal/syncerr"
)

// Validate cascades through every section, collecting every violation
// rather than stopping at the first, so a UsageError reports everything
// wrong with the configuration in one pass.
func (c *Config) Validate() error {
	var problems []string

	problems = append(problems, c.validateSampling()...)
	problems = append(problems, c.validateConcurrency()...)
	problems = append(problems, c.validateRetry()...)
	problems = append(problems, c.validateASR()...)
	problems = append(problems, c.validateLogging()...)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", syncerr.ErrUsage, strings.Join(problems, "; "))
}

func (c *Config) validateSampling() []string {
	var problems []string
	if c.Sampling.Samples <= 0 {
		problems = append(problems, "sampling.samples must be positive")
	}
	if c.Sampling.SearchWindowMinutes <= 0 {
		problems = append(problems, "sampling.search_window_minutes must be positive")
	}
	if c.Sampling.SimilarityThreshold < 0 || c.Sampling.SimilarityThreshold > 1 {
		problems = append(problems, "sampling.similarity_threshold must be between 0 and 1")
	}
	if c.Sampling.MinChars <= 0 {
		problems = append(problems, "sampling.min_chars must be positive")
	}
	if c.Sampling.SampleDurationSeconds <= 0 {
		problems = append(problems, "sampling.sample_duration_seconds must be positive")
	}
	if c.Sampling.StrideSeconds <= 0 {
		problems = append(problems, "sampling.stride_seconds must be positive")
	}
	return problems
}

func (c *Config) validateConcurrency() []string {
	if c.Concurrency.FanOut <= 0 {
		return []string{"concurrency.fan_out must be positive"}
	}
	return nil
}

func (c *Config) validateRetry() []string {
	var problems []string
	if c.Retry.MaxAttempts <= 0 {
		problems = append(problems, "retry.max_attempts must be positive")
	}
	if c.Retry.BackoffBaseSeconds <= 0 {
		problems = append(problems, "retry.backoff_base_seconds must be positive")
	}
	return problems
}

func (c *Config) validateASR() []string {
	switch c.ASR.API {
	case "whisper", "google":
	default:
		return []string{fmt.Sprintf("asr.api must be %q or %q, got %q", "whisper", "google", c.ASR.API)}
	}
	return nil
}

func (c *Config) validateLogging() []string {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return []string{fmt.Sprintf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)}
	}
	return nil
}
