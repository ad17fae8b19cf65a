package retry

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
)

// Policy bounds how often Validate re-checks a condition.
type Policy struct {
	// MaxRetryCount is the number of re-checks after the first one.
	MaxRetryCount int
	// RetryInterval is the pause between checks.
	RetryInterval time.Duration
	// Enabled turns re-checking on. When false the condition is checked once.
	Enabled bool
}

// Check validates the policy values.
func (p Policy) Check() error {
	if p.MaxRetryCount < 0 {
		return errors.New("max retry count must not be negative")
	}
	if p.RetryInterval < 0 {
		return errors.New("retry interval must not be negative")
	}
	return nil
}

// Outcome is the result of a state validation.
type Outcome int

const (
	// OutcomeUnknown means the state could not be determined.
	OutcomeUnknown Outcome = iota
	// OutcomeConfirmed means the condition was observed to hold.
	OutcomeConfirmed
	// OutcomeRefuted means the condition was still false when the budget ran out.
	OutcomeRefuted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeRefuted:
		return "refuted"
	default:
		return "unknown"
	}
}

// Holds reports whether the condition was observed to hold.
func (o Outcome) Holds() bool {
	return o == OutcomeConfirmed
}

// Condition reports whether some remote state holds. known is false when the
// state could not be fetched; a non-nil error aborts validation.
type Condition func(ctx context.Context) (holds, known bool, err error)

// Validate evaluates cond until it holds, its state becomes unknown, or the
// policy's retry budget is spent. With an always-false condition and retries
// enabled, cond runs MaxRetryCount+1 times.
//
// Cancelling ctx interrupts the pause between checks and returns
// OutcomeUnknown with the context error.
func Validate(ctx context.Context, policy Policy, cond Condition) (Outcome, error) {
	log := logr.FromContextOrDiscard(ctx)

	for attempt := 0; ; attempt++ {
		holds, known, err := cond(ctx)
		if err != nil {
			return OutcomeUnknown, err
		}

		switch {
		case !known:
			log.V(1).Info("state unknown, giving up", "attempt", attempt+1)
			return OutcomeUnknown, nil
		case holds:
			return OutcomeConfirmed, nil
		case !policy.Enabled || attempt >= policy.MaxRetryCount:
			return OutcomeRefuted, nil
		}

		log.V(1).Info("condition not met yet",
			"attempt", attempt+1,
			"maxRetryCount", policy.MaxRetryCount,
			"interval", policy.RetryInterval)

		if err := pause(ctx, policy.RetryInterval); err != nil {
			return OutcomeUnknown, err
		}
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
