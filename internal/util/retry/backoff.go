package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Backoff describes an exponential backoff schedule.
type Backoff struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultBackoff is used for catalog reads: four attempts within about two seconds.
var DefaultBackoff = Backoff{
	MaxRetries:   3,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2,
}

// next returns the delay following d.
func (b Backoff) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * b.Multiplier)
	return min(d, b.MaxDelay)
}

// Option adjusts a Backoff.
type Option func(*Backoff)

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(b *Backoff) { b.MaxRetries = n }
}

// WithInitialDelay sets the pause before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(b *Backoff) { b.InitialDelay = d }
}

// WithMaxDelay caps the pause between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(b *Backoff) { b.MaxDelay = d }
}

// WithMultiplier sets the growth factor of the pause.
func WithMultiplier(m float64) Option {
	return func(b *Backoff) { b.Multiplier = m }
}

// WithExponentialBackoff runs operation until it succeeds, returns a Fatal
// error, or DefaultBackoff adjusted by opts is exhausted. Only idempotent
// operations belong here.
func WithExponentialBackoff(ctx context.Context, operation func(context.Context) error, opts ...Option) error {
	b := DefaultBackoff
	for _, opt := range opts {
		opt(&b)
	}

	log := logr.FromContextOrDiscard(ctx)
	delay := b.InitialDelay

	for attempt := 0; ; attempt++ {
		err := operation(ctx)
		switch {
		case err == nil:
			return nil
		case IsFatal(err):
			return fmt.Errorf("fatal error (not retrying): %w", err)
		case attempt >= b.MaxRetries:
			return fmt.Errorf("operation failed after %d attempts: %w", attempt+1, err)
		}

		log.V(1).Info("operation failed, backing off", "attempt", attempt+1, "delay", delay, "error", err.Error())
		if err := pause(ctx, delay); err != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, err)
		}
		delay = b.next(delay)
	}
}
