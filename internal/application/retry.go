package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// retryPolicy bounds retryAcross. Backoff grows linearly: attempt × backoff.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// permanentError marks a failure that is a definitive answer and must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAcross runs op against resources chosen by pick until it succeeds, fails permanently,
// or the attempt ceiling is reached. onFailure is told about every retryable failure before
// the next pick so the failing resource can be demoted. Exhaustion returns every attempt's error.
func retryAcross[R, T any](
	ctx context.Context,
	policy retryPolicy,
	pick func(context.Context) (R, error),
	op func(context.Context, R) (T, error),
	onFailure func(R, error),
) (T, error) {
	var zero T
	var errs error

	attempts := policy.attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := policy.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := pick(ctx)
		if err != nil {
			return zero, multierr.Append(errs, err)
		}

		out, err := op(ctx, res)
		if err == nil {
			return out, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		onFailure(res, err)
		errs = multierr.Append(errs, fmt.Errorf("attempt %d: %w", attempt, err))

		if attempt < attempts {
			if sleepErr := sleep(ctx, time.Duration(attempt)*policy.backoff); sleepErr != nil {
				return zero, multierr.Append(errs, sleepErr)
			}
		}
	}
	return zero, errs
}

// firstHealthy walks items in order, re-probing stale ones, and returns the first healthy
// item. If none is healthy, items not probed during this call are probed once more.
func firstHealthy[T any](
	ctx context.Context,
	items []T,
	stale func(T) bool,
	healthy func(T) bool,
	probe func(context.Context, T) bool,
) (T, bool) {
	probed := make([]bool, len(items))

	for i, item := range items {
		if ctx.Err() != nil {
			var zero T
			return zero, false
		}
		ok := healthy(item)
		if stale(item) {
			ok = probe(ctx, item)
			probed[i] = true
		}
		if ok {
			return item, true
		}
	}

	for i, item := range items {
		if probed[i] || ctx.Err() != nil {
			continue
		}
		if probe(ctx, item) {
			return item, true
		}
	}

	var zero T
	return zero, false
}
