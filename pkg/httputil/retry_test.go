package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	errFinal := errors.New("final")

	tests := []struct {
		name      string
		attempts  int
		fn        func(call int) error
		wantCalls int
		wantErr   error
	}{
		{"success", 3, func(int) error { return nil }, 1, nil},
		{"non-retryable stops", 3, func(int) error { return errFinal }, 1, errFinal},
		{"recovers", 3, func(call int) error {
			if call < 3 {
				return &RetryableError{Err: errTransient}
			}
			return nil
		}, 3, nil},
		{"exhausted", 2, func(int) error { return &RetryableError{Err: errTransient} }, 2, errTransient},
		{"zero attempts runs once", 0, func(int) error { return &RetryableError{Err: errTransient} }, 1, errTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				return tt.fn(calls)
			})
			if err != tt.wantErr {
				t.Errorf("Retry() = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error { return &RetryableError{Err: errTransient} })
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestRetryableErrorUnwrap(t *testing.T) {
	wrapped := &RetryableError{Err: errTransient}
	if wrapped.Error() != errTransient.Error() {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, errTransient) {
		t.Error("RetryableError should unwrap to its cause")
	}
}
