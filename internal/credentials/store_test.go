package credentials

import (
	"context"
	"errors"
	"fmt"
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	store := NewStore(backend, logr.Discard())
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, "svc1", fullRecord()))
	assert.Equal(t, []string{"/additionalData/svc1"}, backend.paths())

	got, err := store.Read(ctx, "svc1")
	require.NoError(t, err)
	assert.Equal(t, fullRecord(), *got)
}

func TestStore_PersistOverwrites(t *testing.T) {
	t.Parallel()

	store := NewStore(NewMemoryBackend(), logr.Discard())
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, "svc1", ClusterCredentials{ClusterEndpoint: "old:3000", JobID: "application_1_1"}))
	require.NoError(t, store.Persist(ctx, "svc1", fullRecord()))

	got, err := store.Read(ctx, "svc1")
	require.NoError(t, err)
	assert.Equal(t, "gp-master-0:3000", got.ClusterEndpoint)
}

func TestStore_ReadMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(NewMemoryBackend(), logr.Discard())

	_, err := store.Read(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "nope", perr.InstanceID)
}

func TestStore_ReadCorrupt(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(context.Background(), "/additionalData/svc1", []byte("not json")))
	store := NewStore(backend, logr.Discard())

	_, err := store.Read(context.Background(), "svc1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to decode credentials of instance svc1")
}

func TestStore_ReadEmptyRecord(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(context.Background(), "/additionalData/svc1", []byte("{}")))
	store := NewStore(backend, logr.Discard())

	_, err := store.Read(context.Background(), "svc1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	store := NewStore(backend, logr.Discard())
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, "svc1", fullRecord()))
	require.NoError(t, store.Remove(ctx, "svc1"))
	require.NoError(t, store.Remove(ctx, "svc1"))
	assert.Empty(t, backend.paths())

	_, err := store.Read(ctx, "svc1")
	require.ErrorIs(t, err, ErrNotFound)
}

type mockObjects struct {
	mock.Mock
}

func (m *mockObjects) PutObject(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *mockObjects) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockObjects) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockObjects) PutObjectIfAbsent(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

func TestS3Backend_Keys(t *testing.T) {
	t.Parallel()

	objects := &mockObjects{}
	objects.On("PutObject", mock.Anything, "broker/additionalData/svc1", mock.Anything).Return(nil).Once()
	objects.On("DeleteObject", mock.Anything, "broker/additionalData/svc1").Return(nil).Once()

	store := NewStore(NewS3Backend(objects, "/broker/"), logr.Discard())
	require.NoError(t, store.Persist(context.Background(), "svc1", fullRecord()))
	require.NoError(t, store.Remove(context.Background(), "svc1"))

	objects.AssertExpectations(t)
}

func TestS3Backend_NoPrefix(t *testing.T) {
	t.Parallel()

	objects := &mockObjects{}
	objects.On("GetObject", mock.Anything, "additionalData/svc1").
		Return([]byte(`{"masters":"gp-master-0:3000","yarnApplicationId":"application_1_1"}`), nil).Once()

	store := NewStore(NewS3Backend(objects, ""), logr.Discard())
	got, err := store.Read(context.Background(), "svc1")
	require.NoError(t, err)
	assert.Equal(t, "application_1_1", got.JobID)

	objects.AssertExpectations(t)
}

func TestS3Backend_MissingKey(t *testing.T) {
	t.Parallel()

	objects := &mockObjects{}
	objects.On("GetObject", mock.Anything, "additionalData/svc1").
		Return(nil, fmt.Errorf("failed to get object: %w", &s3types.NoSuchKey{})).Once()

	store := NewStore(NewS3Backend(objects, ""), logr.Discard())
	_, err := store.Read(context.Background(), "svc1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestS3Backend_BackendFailure(t *testing.T) {
	t.Parallel()

	objects := &mockObjects{}
	objects.On("PutObject", mock.Anything, "additionalData/svc1", mock.Anything).Return(errors.New("access denied")).Once()
	objects.On("DeleteObject", mock.Anything, "additionalData/svc1").Return(errors.New("access denied")).Once()

	store := NewStore(NewS3Backend(objects, ""), logr.Discard())

	err := store.Persist(context.Background(), "svc1", fullRecord())
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "persist", perr.Op)

	err = store.Remove(context.Background(), "svc1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to remove credentials of instance svc1")
}
