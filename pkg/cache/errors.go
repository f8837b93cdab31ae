package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/cfgview/pkg/httputil"
)

var (
	// ErrNetwork marks a remote backend that could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrConfig marks a backend constructed with missing or unknown settings.
	ErrConfig = errors.New("invalid cache configuration")
)

const pingAttempts = 3

// pingDelay is the wait before the second ping; tests shorten it.
var pingDelay = time.Second

// ping checks that a remote backend answers, retrying failures with
// backoff. The error wraps [ErrNetwork].
func ping(ctx context.Context, check func(context.Context) error) error {
	return httputil.Retry(ctx, pingAttempts, pingDelay, func() error {
		if err := check(ctx); err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		return nil
	})
}
