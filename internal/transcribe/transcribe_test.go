package transcribe

import (
	"context"
	"errors"
	"testing"
	"time"

	"subshift/internal/syncerr"
)

func TestWithRetryRetriesTransientFailures(t *testing.T) {
	attempts := 0
	mock := &Mock{Fn: func(string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient: "+syncerr.ErrRetryableAPI.Error())
		}
		return "HELLO", nil
	}}
	retrying := WithRetry(mock, RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	text, err := retrying.Transcribe(context.Background(), "sample.wav")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Fatalf("expected normalized text, got %q", text)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryDoesNotRetryAuthFailure(t *testing.T) {
	attempts := 0
	mock := &Mock{Fn: func(string) (string, error) {
		attempts++
		return "", syncerr.ErrAuth
	}}
	retrying := WithRetry(mock, RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	_, err := retrying.Transcribe(context.Background(), "sample.wav")
	if !errors.Is(err, syncerr.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected no retries for a fatal error, got %d attempts", attempts)
	}
}
