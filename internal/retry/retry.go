package retry

import (
	"context"
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"
)

// Transient-infrastructure signatures: lock contention, busy backends,
// timeouts. Anything else is a deterministic rejection and is not retried.
var transientPattern = regexp.MustCompile(`(?i)database is locked|sqlite_busy|timeout|busy`)

// Options controls retry behavior for one wrapped operation.
type Options struct {
	Retries   int           // additional attempts after the first
	BaseDelay time.Duration // backoff is BaseDelay << attempt
}

// DefaultOptions mirrors the importer's standard mutation retry policy.
func DefaultOptions() Options {
	return Options{Retries: 3, BaseDelay: 300 * time.Millisecond}
}

// IsTransient reports whether err carries a transient-infrastructure
// signature worth retrying.
func IsTransient(err error) bool {
	return err != nil && transientPattern.MatchString(err.Error())
}

// Do invokes op, retrying on transient failures with exponential backoff.
// A non-transient error is returned immediately without consuming a retry.
// After opts.Retries retries the last error is returned.
func Do[T any](ctx context.Context, opts Options, op func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) || attempt >= opts.Retries {
			return zero, err
		}
		delay := opts.BaseDelay << attempt
		log.Warnf("🔄 Transient error, retrying in %v (attempt %d/%d): %v", delay, attempt+1, opts.Retries, err)
		if sleepErr := sleepWithContext(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}
}

// DoVoid is Do for operations with no result.
func DoVoid(ctx context.Context, opts Options, op func() error) error {
	_, err := Do(ctx, opts, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
