// Package transcribe adapts cloud speech-to-text services behind one
// capability interface, with retry/backoff for transient failures.
package transcribe

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"subshift/internal/normalize"
	"subshift/internal/syncerr"
)

// Transcriber converts a PCM/WAV audio buffer into normalized text. Any type
// implementing this qualifies; no runtime type switches are needed to add a
// new backend.
type Transcriber interface {
	Transcribe(ctx context.Context, pcmPath string) (string, error)
}

// RetryConfig controls the backoff policy applied around a Transcriber call.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig matches the taxonomy's "up to 3 attempts, base 2s,
// jittered exponential backoff" policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// WithRetry wraps a Transcriber so transient failures (syncerr.ErrRetryableAPI)
// are retried with exponential backoff and jitter; AuthError/QuotaExceeded
// are never retried.
func WithRetry(t Transcriber, cfg RetryConfig) Transcriber {
	return &retrying{inner: t, cfg: cfg}
}

type retrying struct {
	inner Transcriber
	cfg   RetryConfig
}

func (r *retrying) Transcribe(ctx context.Context, pcmPath string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.cfg.BaseDelay
	bo := backoff.WithMaxRetries(policy, uint64(r.cfg.MaxAttempts-1))
	bo = backoff.WithContext(bo, ctx)

	var text string
	err := backoff.Retry(func() error {
		out, err := r.inner.Transcribe(ctx, pcmPath)
		if err != nil {
			text = ""
			if isFatal(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}, bo)

	if err != nil {
		return "", err
	}
	return normalize.Text(text), nil
}

func isFatal(err error) bool {
	return errors.Is(err, syncerr.ErrAuth) || errors.Is(err, syncerr.ErrQuotaExceeded)
}
