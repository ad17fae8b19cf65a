package broker

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/utils/keymutex"

	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/provisioning"
)

// Provisioner runs the provision and deprovision sagas.
type Provisioner interface {
	ProvisionInstance(ctx context.Context, req provisioning.Request) (*credentials.ClusterCredentials, error)
	DeprovisionInstance(ctx context.Context, creds *credentials.ClusterCredentials) error
}

// Records stores credential records by instance id.
type Records interface {
	Persist(ctx context.Context, instanceID string, creds credentials.ClusterCredentials) error
	Read(ctx context.Context, instanceID string) (*credentials.ClusterCredentials, error)
	Remove(ctx context.Context, instanceID string) error
	Acquire(ctx context.Context, instanceID, owner string) (*credentials.Lease, error)
}

// Service creates and deletes service instances.
type Service struct {
	provisioner Provisioner
	records     Records
	metrics     *provisioning.Metrics
	log         logr.Logger
	locks       keymutex.KeyMutex
	host        string
}

// NewService creates a Service. metrics may be nil.
func NewService(p Provisioner, records Records, metrics *provisioning.Metrics, log logr.Logger) *Service {
	return &Service{
		provisioner: p,
		records:     records,
		metrics:     metrics,
		log:         log,
		locks:       keymutex.NewHashed(0),
		host:        hostname(),
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}

// lock serializes work on instanceID within this process and takes the
// instance lease in the store so other broker processes are excluded too.
func (s *Service) lock(ctx context.Context, instanceID string) (func(), error) {
	s.locks.LockKey(instanceID)

	owner := s.host + ":" + uuid.NewString()
	lease, err := s.records.Acquire(ctx, instanceID, owner)
	if err != nil {
		_ = s.locks.UnlockKey(instanceID)
		return nil, err
	}

	return func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.Error(err, "failed to release instance lease", "instanceId", instanceID, "owner", owner)
		}
		_ = s.locks.UnlockKey(instanceID)
	}, nil
}

// CreateInstance provisions a cluster and stores its credentials. When the
// credentials cannot be stored the fresh cluster is deprovisioned again and
// the store error is returned.
func (s *Service) CreateInstance(ctx context.Context, req provisioning.Request) (*credentials.ClusterCredentials, error) {
	if req.InstanceID == "" {
		return nil, errors.New("instance id is required")
	}
	unlock, err := s.lock(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	creds, err := s.provisioner.ProvisionInstance(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.records.Persist(ctx, req.InstanceID, *creds); err != nil {
		s.log.Error(err, "failed to store credentials, deprovisioning", "instanceId", req.InstanceID)
		s.metrics.RecordCompensation(provisioning.ReasonPersistFailed)
		if derr := s.provisioner.DeprovisionInstance(ctx, creds); derr != nil {
			s.log.Error(derr, "compensating deprovision failed", "instanceId", req.InstanceID)
		}
		return nil, err
	}

	s.log.Info("instance created", "instanceId", req.InstanceID)
	return creds, nil
}

// DeleteInstance deprovisions the cluster recorded for instanceID and removes
// its credentials. The record is kept when deprovisioning fails.
func (s *Service) DeleteInstance(ctx context.Context, instanceID string) error {
	unlock, err := s.lock(ctx, instanceID)
	if err != nil {
		return err
	}
	defer unlock()

	creds, err := s.read(ctx, instanceID)
	if err != nil {
		return err
	}

	if err := s.provisioner.DeprovisionInstance(ctx, creds); err != nil {
		return fmt.Errorf("failed to deprovision instance %s: %w", instanceID, err)
	}

	if err := s.records.Remove(ctx, instanceID); err != nil {
		return err
	}

	s.log.Info("instance deleted", "instanceId", instanceID)
	return nil
}

// Credentials returns the stored credentials of instanceID.
func (s *Service) Credentials(ctx context.Context, instanceID string) (*credentials.ClusterCredentials, error) {
	return s.read(ctx, instanceID)
}

func (s *Service) read(ctx context.Context, instanceID string) (*credentials.ClusterCredentials, error) {
	creds, err := s.records.Read(ctx, instanceID)
	if errors.Is(err, credentials.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}
	if err != nil {
		return nil, err
	}
	return creds, nil
}
