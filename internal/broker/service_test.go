package broker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/dashboard"
	"github.com/imamik/gearpump-broker/internal/launcher"
	"github.com/imamik/gearpump-broker/internal/provisioning"
	"github.com/imamik/gearpump-broker/internal/util/naming"
)

// fakeLauncher always launches the same job and records terminations and
// how many launches overlapped.
type fakeLauncher struct {
	mu         sync.Mutex
	result     launcher.SpawnResult
	terminated []string

	launches  atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
}

func (f *fakeLauncher) Launch(context.Context, int) launcher.SpawnResult {
	f.launches.Add(1)
	n := f.active.Add(1)
	for {
		seen := f.maxActive.Load()
		if n <= seen || f.maxActive.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	f.active.Add(-1)
	return f.result
}

func (f *fakeLauncher) Terminate(_ context.Context, jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = append(f.terminated, jobID)
}

// fakeDeployer deploys every dashboard as inst-1 and records undeploys.
type fakeDeployer struct {
	mu         sync.Mutex
	deployErr  error
	undeployed []string
}

func (f *fakeDeployer) Deploy(_ context.Context, req dashboard.DeployRequest) (credentials.Dashboard, error) {
	if f.deployErr != nil {
		return credentials.Dashboard{}, f.deployErr
	}
	return credentials.Dashboard{
		InstanceID:      "inst-1",
		URL:             req.InstanceName + ".example.com",
		Username:        req.Username,
		Password:        req.Password,
		OAuthClientName: req.OAuthClientName,
	}, nil
}

func (f *fakeDeployer) Undeploy(_ context.Context, instanceID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.undeployed = append(f.undeployed, instanceID)
	return nil
}

type onePlan struct{}

func (onePlan) WorkerCount(string) int { return 1 }

// failingBackend fails every write.
type failingBackend struct {
	*credentials.MemoryBackend
}

func (failingBackend) Put(context.Context, string, []byte) error {
	return errors.New("bucket unavailable")
}

type fixture struct {
	launcher *fakeLauncher
	deployer *fakeDeployer
	backend  *credentials.MemoryBackend
	registry *prometheus.Registry
	metrics  *provisioning.Metrics
	service  *Service
}

func newFixture(t *testing.T, backend credentials.Backend) *fixture {
	t.Helper()

	mem := credentials.NewMemoryBackend()
	if backend == nil {
		backend = mem
	}
	f := &fixture{
		launcher: &fakeLauncher{result: launcher.SpawnResult{
			Status:      launcher.StatusOK,
			Credentials: credentials.ClusterCredentials{JobID: "application_1_0001", ClusterEndpoint: "gp-master-0:3000"},
		}},
		deployer: &fakeDeployer{},
		backend:  mem,
		registry: prometheus.NewRegistry(),
	}
	f.metrics = provisioning.NewMetrics(f.registry)
	orch := provisioning.NewOrchestrator(f.launcher, f.deployer, onePlan{}, logr.Discard(), provisioning.WithMetrics(f.metrics))
	f.service = NewService(orch, credentials.NewStore(backend, logr.Discard()), f.metrics, logr.Discard())
	return f
}

func (f *fixture) stored(t *testing.T, path string) bool {
	t.Helper()
	_, err := f.backend.Get(context.Background(), path)
	if errors.Is(err, credentials.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestService_EndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	created, err := f.service.CreateInstance(ctx, provisioning.Request{InstanceID: "svc1", PlanID: "gearpump-small"})
	require.NoError(t, err)
	assert.True(t, f.stored(t, "/additionalData/svc1"))
	assert.False(t, f.stored(t, naming.InstanceLease("svc1")), "lease must be released")
	assert.Equal(t, "gp-ui-svc1.example.com", created.DashboardURL)
	assert.Equal(t, "admin", created.DashboardUsername)

	stored, err := f.service.Credentials(ctx, "svc1")
	require.NoError(t, err)
	assert.Equal(t, created, stored)

	require.NoError(t, f.service.DeleteInstance(ctx, "svc1"))
	assert.False(t, f.stored(t, "/additionalData/svc1"))
	assert.False(t, f.stored(t, naming.InstanceLease("svc1")))
	assert.Equal(t, []string{"application_1_0001"}, f.launcher.terminated)
	assert.Equal(t, []string{"inst-1"}, f.deployer.undeployed)

	_, err = f.service.Credentials(ctx, "svc1")
	require.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestService_CreateInstance_ProvisionFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.deployer.deployErr = &dashboard.Error{Op: "deploy", Err: dashboard.ErrNotRunning}

	_, err := f.service.CreateInstance(context.Background(), provisioning.Request{InstanceID: "svc1"})

	require.ErrorIs(t, err, dashboard.ErrNotRunning)
	assert.False(t, f.stored(t, "/additionalData/svc1"))
	assert.False(t, f.stored(t, naming.InstanceLease("svc1")))
	assert.Equal(t, []string{"application_1_0001"}, f.launcher.terminated)
}

func TestService_CreateInstance_PersistFailureDeprovisions(t *testing.T) {
	t.Parallel()

	f := newFixture(t, failingBackend{credentials.NewMemoryBackend()})

	creds, err := f.service.CreateInstance(context.Background(), provisioning.Request{InstanceID: "svc1"})

	assert.Nil(t, creds)
	var perr *credentials.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "persist", perr.Op)
	assert.Equal(t, []string{"application_1_0001"}, f.launcher.terminated)
	assert.Equal(t, []string{"inst-1"}, f.deployer.undeployed)
	require.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(`
# HELP gearpump_broker_compensations_total Total number of compensating actions by reason
# TYPE gearpump_broker_compensations_total counter
gearpump_broker_compensations_total{reason="persist_failed"} 1
`), "gearpump_broker_compensations_total"))
}

func TestService_CreateInstance_RequiresID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	_, err := f.service.CreateInstance(context.Background(), provisioning.Request{})
	require.Error(t, err)
}

func TestService_DeleteInstance_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	err := f.service.DeleteInstance(context.Background(), "missing")

	require.ErrorIs(t, err, ErrInstanceNotFound)
	assert.Empty(t, f.launcher.terminated)
	assert.Empty(t, f.deployer.undeployed)
}

func TestService_SameInstanceIsSerialized(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	var wg sync.WaitGroup
	errs := make(chan error, 8)

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateInstance(context.Background(), provisioning.Request{InstanceID: "svc1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(8), f.launcher.launches.Load())
	assert.Equal(t, int32(1), f.launcher.maxActive.Load())
	assert.False(t, f.stored(t, naming.InstanceLease("svc1")))
}

func TestService_LeaseHeldElsewhere(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	other := credentials.NewStore(f.backend, logr.Discard())
	lease, err := other.Acquire(ctx, "svc1", "other-host:run-1")
	require.NoError(t, err)

	_, err = f.service.CreateInstance(ctx, provisioning.Request{InstanceID: "svc1"})
	require.ErrorIs(t, err, credentials.ErrLeaseHeld)
	assert.Contains(t, err.Error(), "other-host:run-1")
	assert.Zero(t, f.launcher.launches.Load())

	err = f.service.DeleteInstance(ctx, "svc1")
	require.ErrorIs(t, err, credentials.ErrLeaseHeld)
	assert.Empty(t, f.launcher.terminated)

	require.NoError(t, lease.Release(ctx))
	_, err = f.service.CreateInstance(ctx, provisioning.Request{InstanceID: "svc1"})
	require.NoError(t, err)
}
