package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/gearpump-broker/internal/util/naming"
)

// Lease is exclusive ownership of one instance, shared by every broker
// process using the same store.
type Lease struct {
	store      *Store
	instanceID string
	owner      string
}

type leaseRecord struct {
	Owner      string    `json:"owner"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// Acquire takes the lease on instanceID for owner. It does not wait: when
// the lease is taken the error matches ErrLeaseHeld and names the holder.
func (s *Store) Acquire(ctx context.Context, instanceID, owner string) (*Lease, error) {
	data, err := json.Marshal(leaseRecord{Owner: owner, AcquiredAt: s.now().UTC()})
	if err != nil {
		return nil, &Error{Op: "encode", InstanceID: instanceID, Err: err}
	}

	path := naming.InstanceLease(instanceID)
	if err := s.backend.Create(ctx, path, data); err != nil {
		if errors.Is(err, ErrExists) {
			return nil, &Error{Op: "lock", InstanceID: instanceID, Err: s.holder(ctx, path)}
		}
		return nil, &Error{Op: "lock", InstanceID: instanceID, Err: err}
	}

	s.log.V(1).Info("lease acquired", "instanceId", instanceID, "owner", owner)
	return &Lease{store: s, instanceID: instanceID, owner: owner}, nil
}

func (s *Store) holder(ctx context.Context, path string) error {
	data, err := s.backend.Get(ctx, path)
	if err != nil {
		return ErrLeaseHeld
	}
	var rec leaseRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Owner == "" {
		return ErrLeaseHeld
	}
	return fmt.Errorf("%w: held by %s since %s", ErrLeaseHeld, rec.Owner, rec.AcquiredAt.Format(time.RFC3339))
}

// Release gives the lease up. Releasing a lease that is already gone succeeds.
func (l *Lease) Release(ctx context.Context) error {
	err := l.store.backend.Delete(ctx, naming.InstanceLease(l.instanceID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return &Error{Op: "unlock", InstanceID: l.instanceID, Err: err}
	}
	l.store.log.V(1).Info("lease released", "instanceId", l.instanceID, "owner", l.owner)
	return nil
}
