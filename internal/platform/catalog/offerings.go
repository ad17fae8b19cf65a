package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/imamik/gearpump-broker/internal/util/retry"
)

// ErrOfferingNotFound is returned when no offering carries the configured name.
var ErrOfferingNotFound = errors.New("offering not found")

// OfferingRef identifies the offering and plan used for new instances.
type OfferingRef struct {
	OfferingID string
	PlanID     string
}

// OfferingLister lists marketplace offerings.
type OfferingLister interface {
	ListOfferings(ctx context.Context) ([]Offering, error)
}

// OfferingResolver looks up an offering by name once and caches its ids
// until Invalidate is called. Concurrent lookups share one request.
type OfferingResolver struct {
	lister    OfferingLister
	name      string
	pinned    *OfferingRef
	retryOpts []retry.Option

	mu     sync.RWMutex
	cached *OfferingRef
	group  singleflight.Group
}

// ResolverOption configures an OfferingResolver.
type ResolverOption func(*OfferingResolver)

// WithPinnedOffering skips the catalog lookup and always returns ref.
func WithPinnedOffering(ref OfferingRef) ResolverOption {
	return func(r *OfferingResolver) {
		r.pinned = &ref
	}
}

// WithLookupRetry sets the backoff used for the offering listing.
func WithLookupRetry(opts ...retry.Option) ResolverOption {
	return func(r *OfferingResolver) {
		r.retryOpts = opts
	}
}

// NewOfferingResolver creates a resolver for the offering called name.
func NewOfferingResolver(lister OfferingLister, name string, opts ...ResolverOption) *OfferingResolver {
	r := &OfferingResolver{lister: lister, name: name}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the offering and first plan id.
func (r *OfferingResolver) Resolve(ctx context.Context) (OfferingRef, error) {
	if r.pinned != nil {
		return *r.pinned, nil
	}

	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	v, err, _ := r.group.Do(r.name, func() (any, error) {
		r.mu.RLock()
		cached := r.cached
		r.mu.RUnlock()
		if cached != nil {
			return *cached, nil
		}

		ref, err := r.lookup(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cached = &ref
		r.mu.Unlock()
		return ref, nil
	})
	if err != nil {
		return OfferingRef{}, err
	}
	return v.(OfferingRef), nil
}

// Invalidate drops the cached ids so the next Resolve reloads them.
func (r *OfferingResolver) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

func (r *OfferingResolver) lookup(ctx context.Context) (OfferingRef, error) {
	var ref OfferingRef
	err := retry.WithExponentialBackoff(ctx, func(ctx context.Context) error {
		offerings, err := r.lister.ListOfferings(ctx)
		if err != nil {
			return err
		}
		for _, o := range offerings {
			if o.Name != r.name {
				continue
			}
			if len(o.Plans) == 0 {
				return retry.Fatal(fmt.Errorf("offering %s has no plans", r.name))
			}
			ref = OfferingRef{OfferingID: o.ID, PlanID: o.Plans[0].ID}
			return nil
		}
		return retry.Fatal(fmt.Errorf("%w: %s", ErrOfferingNotFound, r.name))
	}, r.retryOpts...)
	if err != nil {
		return OfferingRef{}, fmt.Errorf("failed to resolve offering %s: %w", r.name, err)
	}
	return ref, nil
}
