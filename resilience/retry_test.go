package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %s", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 4, InitialBackoff: time.Millisecond, BackoffFactor: 2.0}
	calls := 0

	result, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ReturnsLastErrorAfterExhaustion(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 2.0}
	testErr := errors.New("persistent")
	calls := 0

	_, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", testErr
	})
	if !errors.Is(err, testErr) {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_StopsOnNonRetryableError(t *testing.T) {
	terminal := errors.New("terminal")
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		RetryIf:        func(err error) bool { return !errors.Is(err, terminal) },
	}
	calls := 0

	_, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", terminal
	})
	if !errors.Is(err, terminal) {
		t.Errorf("expected terminal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("terminal error must not be retried, got %d calls", calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 10, InitialBackoff: 100 * time.Millisecond, BackoffFactor: 2.0}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		calls++
		return "", errors.New("transient")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if calls >= 10 {
		t.Errorf("context should bound attempts, got %d calls", calls)
	}
}

func TestRetry_OnRetryReportsBackoff(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 2.0}
	var attempts []int
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		attempts = append(attempts, attempt)
		if backoff <= 0 {
			t.Errorf("backoff must be positive, got %v", backoff)
		}
	}

	_ = RetryFunc(context.Background(), cfg, func() error {
		return errors.New("transient")
	})
	if len(attempts) != 2 {
		t.Errorf("expected OnRetry for attempts 1 and 2, got %v", attempts)
	}
}
