package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetryWithContext_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("RetryWithContext() error = %v", err)
	}
	if result != "ok" {
		t.Fatalf("RetryWithContext() result = %q, want %q", result, "ok")
	}
	if calls != 3 {
		t.Fatalf("RetryWithContext() calls = %d, want 3", calls)
	}
}

func TestRetryWithContext_ReturnsLastError(t *testing.T) {
	wantErr := errors.New("always fails")
	_, err := RetryWithContext(context.Background(), 2, func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("RetryWithContext() error = %v, want %v", err, wantErr)
	}
}

func TestRetryWithContext_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 5, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RetryWithContext() error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Fatalf("RetryWithContext() calls = %d, want 0 after cancel", calls)
	}
}

func TestRetryErrWithContext_DoesNotRetryCancellation(t *testing.T) {
	calls := 0
	err := RetryErrWithContext(context.Background(), 5, func(ctx context.Context) error {
		calls++
		return context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RetryErrWithContext() error = %v, want deadline exceeded", err)
	}
	if calls != 1 {
		t.Fatalf("RetryErrWithContext() calls = %d, want 1", calls)
	}
}
