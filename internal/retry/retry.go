package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Policy controls how an operation is retried. The zero values of MaxAttempts
// and MaxElapsed mean unbounded, which is the production posture: retries run
// until success or context cancellation. Tests set bounds to stay
// deterministic.
type Policy struct {
	// Delay is the pause between attempts. The production default is an
	// aggressive burst-retry interval, not an exponential schedule.
	Delay time.Duration
	// MaxAttempts bounds the total number of attempts; 0 means unbounded.
	MaxAttempts int
	// MaxElapsed bounds total time across attempts; 0 means unbounded.
	MaxElapsed time.Duration
}

// DefaultPolicy retries forever with a near-immediate delay.
var DefaultPolicy = Policy{Delay: time.Millisecond}

// OnRetry observes a failed attempt before the driver sleeps. Attempt numbers
// start at 1 for the first failure.
type OnRetry func(attempt int, delay time.Duration)

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks an error as terminal so Do returns it immediately instead
// of retrying. No-result and configuration conditions use this: the request
// succeeded, retrying will not change the answer.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do invokes op until it succeeds or the policy terminates. Every failure is
// logged with its attempt number, then onRetry (if any) runs, then the driver
// sleeps for the policy delay. Context cancellation aborts between attempts
// and during the sleep.
func Do[T any](ctx context.Context, logger zerolog.Logger, policy Policy, op func(context.Context) (T, error), onRetry OnRetry) (T, error) {
	var zero T
	started := time.Now()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		logger.Warn().Err(err).Int("attempt", attempt).Msg("retry: operation failed")
		if onRetry != nil {
			onRetry(attempt, policy.Delay)
		}

		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return zero, fmt.Errorf("retry: gave up after %d attempts: %w", attempt, err)
		}
		if policy.MaxElapsed > 0 && time.Since(started) >= policy.MaxElapsed {
			return zero, fmt.Errorf("retry: gave up after %s: %w", time.Since(started).Round(time.Millisecond), err)
		}

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
