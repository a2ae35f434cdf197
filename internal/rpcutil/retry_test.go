package rpcutil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetrySucceedsAfterTransientErrors(t *testing.T) {
	attempts := 0
	got, err := WithRetryCustom(context.Background(), retryConfig{maxRetries: 3, baseDelay: time.Millisecond}, func() (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("connection reset")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("WithRetryCustom() error = %v", err)
	}
	if got != 42 {
		t.Errorf("WithRetryCustom() = %d, want 42", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetryGivesUpOnNonRetryableError(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), func() (int, error) {
		attempts++
		return 0, errors.New("invalid signature")
	})
	if err == nil {
		t.Fatal("WithRetry() error = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (non-retryable error should not retry)", attempts)
	}
}

func TestWithRetryStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, err := WithRetryCustom(ctx, retryConfig{maxRetries: 3, baseDelay: time.Millisecond}, func() (int, error) {
		attempts++
		return 0, errors.New("timeout")
	})
	if err == nil {
		t.Fatal("WithRetryCustom() error = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (context already cancelled)", attempts)
	}
}
