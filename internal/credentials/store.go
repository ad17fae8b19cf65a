package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/gearpump-broker/internal/util/naming"
)

// Backend is a path-addressed byte store.
type Backend interface {
	Put(ctx context.Context, path string, data []byte) error
	// Get returns an error matching ErrNotFound when path does not exist.
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	// Create writes path only if it does not exist yet and returns an error
	// matching ErrExists otherwise.
	Create(ctx context.Context, path string, data []byte) error
}

// Store persists credential records.
type Store struct {
	backend Backend
	log     logr.Logger
	now     func() time.Time
}

// NewStore creates a store on top of backend.
func NewStore(backend Backend, log logr.Logger) *Store {
	return &Store{backend: backend, log: log, now: time.Now}
}

// Persist writes the record for instanceID, replacing any existing one.
func (s *Store) Persist(ctx context.Context, instanceID string, creds ClusterCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return &Error{Op: "encode", InstanceID: instanceID, Err: err}
	}
	if err := s.backend.Put(ctx, naming.CredentialRecord(instanceID), data); err != nil {
		return &Error{Op: "persist", InstanceID: instanceID, Err: err}
	}
	s.log.V(1).Info("credentials persisted", "instanceId", instanceID)
	return nil
}

// Read returns the record for instanceID. A missing record yields an error
// matching ErrNotFound.
func (s *Store) Read(ctx context.Context, instanceID string) (*ClusterCredentials, error) {
	data, err := s.backend.Get(ctx, naming.CredentialRecord(instanceID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &Error{Op: "read", InstanceID: instanceID, Err: ErrNotFound}
		}
		return nil, &Error{Op: "read", InstanceID: instanceID, Err: err}
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &Error{Op: "decode", InstanceID: instanceID, Err: err}
	}
	creds := FromMap(m)
	if creds == nil {
		return nil, &Error{Op: "read", InstanceID: instanceID, Err: fmt.Errorf("%w: empty record", ErrNotFound)}
	}
	return creds, nil
}

// Remove deletes the record for instanceID. Removing a missing record succeeds.
func (s *Store) Remove(ctx context.Context, instanceID string) error {
	err := s.backend.Delete(ctx, naming.CredentialRecord(instanceID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return &Error{Op: "remove", InstanceID: instanceID, Err: err}
	}
	s.log.V(1).Info("credentials removed", "instanceId", instanceID)
	return nil
}
