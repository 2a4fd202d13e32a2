package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarist-labs/glass/pkg/cephx"
	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
	"github.com/aquarist-labs/glass/pkg/store/memory"
)

type recordingMetrics struct {
	mu     sync.Mutex
	ops    map[string]int
	errs   map[string]int
	counts map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		ops:    make(map[string]int),
		errs:   make(map[string]int),
		counts: make(map[string]int),
	}
}

func (m *recordingMetrics) RecordOperation(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op]++
	if err != nil {
		m.errs[op]++
	}
}

func (m *recordingMetrics) SetServiceCount(serviceType string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[serviceType] = count
}

// failingCredentialStore rejects every PutCredential call.
type failingCredentialStore struct {
	services.Store
}

func (failingCredentialStore) PutCredential(context.Context, string, mountcmd.Credential) error {
	return errors.New("disk full")
}

// failingDeleteStore rejects every DeleteService call.
type failingDeleteStore struct {
	services.Store
}

func (failingDeleteStore) DeleteService(context.Context, string) error {
	return errors.New("transaction conflict")
}

// flakyCredentialDeleteStore fails only DeleteCredential.
type flakyCredentialDeleteStore struct {
	services.Store
}

func (flakyCredentialDeleteStore) DeleteCredential(context.Context, string) error {
	return errors.New("s3: 503 slow down")
}

func newDirectory(t *testing.T) (*services.Directory, *recordingMetrics) {
	t.Helper()
	m := newRecordingMetrics()
	return services.NewDirectory(memory.NewMemoryStore(), m), m
}

func TestDirectory_CreateCephFS(t *testing.T) {
	ctx := context.Background()
	dir, _ := newDirectory(t)

	desc, err := dir.Create(ctx, services.CreateRequest{
		Name: "fs1", Type: services.TypeCephFS, Size: 10 << 30, Replicas: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, services.Desc{
		Name: "fs1", Type: services.TypeCephFS, Reservation: 10 << 30, RawSize: 20 << 30, Replicas: 2,
	}, *desc)

	cred, err := dir.Authorization(ctx, "fs1")
	require.NoError(t, err)
	assert.Equal(t, "client.fs1", cred.Entity)
	assert.True(t, strings.HasPrefix(cred.Key, "AQ"), "key %q", cred.Key)

	key, err := cephx.Decode(cred.Key)
	require.NoError(t, err)
	assert.Len(t, key.Secret, cephx.SecretSize)
}

func TestDirectory_CreateNFS(t *testing.T) {
	ctx := context.Background()
	dir, _ := newDirectory(t)

	desc, err := dir.Create(ctx, services.CreateRequest{
		Name: "share", Type: services.TypeNFS, Size: 1 << 30, Replicas: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3<<30), desc.RawSize)

	_, err = dir.Authorization(ctx, "share")
	assert.ErrorIs(t, err, services.ErrNotCephFS)
}

func TestDirectory_CreateValidation(t *testing.T) {
	dir, m := newDirectory(t)

	tests := []struct {
		name string
		req  services.CreateRequest
	}{
		{"empty name", services.CreateRequest{Type: services.TypeNFS, Size: 1, Replicas: 1}},
		{"dotted name", services.CreateRequest{Name: "a.b", Type: services.TypeNFS, Size: 1, Replicas: 1}},
		{"invalid characters", services.CreateRequest{Name: "fs_1", Type: services.TypeNFS, Size: 1, Replicas: 1}},
		{"unknown type", services.CreateRequest{Name: "fs", Type: "smb", Size: 1, Replicas: 1}},
		{"zero size", services.CreateRequest{Name: "fs", Type: services.TypeNFS, Replicas: 1}},
		{"zero replicas", services.CreateRequest{Name: "fs", Type: services.TypeNFS, Size: 1}},
		{"too many replicas", services.CreateRequest{Name: "fs", Type: services.TypeNFS, Size: 1, Replicas: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dir.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, services.ErrInvalidRequest)
		})
	}

	assert.Equal(t, len(tests), m.errs["create"])
}

func TestDirectory_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	dir, _ := newDirectory(t)

	req := services.CreateRequest{Name: "fs1", Type: services.TypeCephFS, Size: 1 << 20, Replicas: 1}
	_, err := dir.Create(ctx, req)
	require.NoError(t, err)

	_, err = dir.Create(ctx, req)
	assert.ErrorIs(t, err, services.ErrAlreadyExists)
}

func TestDirectory_CreateRollsBackOnCredentialFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryStore()
	dir := services.NewDirectory(failingCredentialStore{Store: store}, nil)

	_, err := dir.Create(ctx, services.CreateRequest{
		Name: "fs1", Type: services.TypeCephFS, Size: 1 << 20, Replicas: 1,
	})
	require.ErrorContains(t, err, "disk full")

	_, err = store.GetService(ctx, "fs1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDirectory_ListAndCounts(t *testing.T) {
	ctx := context.Background()
	dir, m := newDirectory(t)

	for _, req := range []services.CreateRequest{
		{Name: "zeta", Type: services.TypeNFS, Size: 1, Replicas: 1},
		{Name: "alpha", Type: services.TypeCephFS, Size: 1, Replicas: 1},
		{Name: "mid", Type: services.TypeCephFS, Size: 1, Replicas: 1},
	} {
		_, err := dir.Create(ctx, req)
		require.NoError(t, err)
	}

	list, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)

	assert.Equal(t, 2, m.counts["cephfs"])
	assert.Equal(t, 1, m.counts["nfs"])
	assert.Equal(t, 3, m.ops["create"])
	assert.Equal(t, 1, m.ops["list"])
}

func TestDirectory_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryStore()
	dir := services.NewDirectory(store, nil)

	_, err := dir.Create(ctx, services.CreateRequest{
		Name: "fs1", Type: services.TypeCephFS, Size: 1, Replicas: 1,
	})
	require.NoError(t, err)

	require.NoError(t, dir.Delete(ctx, "fs1"))

	_, err = dir.Get(ctx, "fs1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = store.GetCredential(ctx, "fs1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = dir.Delete(ctx, "fs1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDirectory_DeleteKeepsCredentialWhenServiceRemains(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryStore()

	_, err := services.NewDirectory(store, nil).Create(ctx, services.CreateRequest{
		Name: "fs1", Type: services.TypeCephFS, Size: 1, Replicas: 1,
	})
	require.NoError(t, err)

	dir := services.NewDirectory(failingDeleteStore{Store: store}, nil)
	require.ErrorContains(t, dir.Delete(ctx, "fs1"), "transaction conflict")

	_, err = dir.Get(ctx, "fs1")
	require.NoError(t, err)

	cred, err := dir.Authorization(ctx, "fs1")
	require.NoError(t, err)
	assert.Equal(t, "client.fs1", cred.Entity)
}

func TestDirectory_DeleteToleratesCredentialFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryStore()

	_, err := services.NewDirectory(store, nil).Create(ctx, services.CreateRequest{
		Name: "fs1", Type: services.TypeCephFS, Size: 1, Replicas: 1,
	})
	require.NoError(t, err)

	dir := services.NewDirectory(flakyCredentialDeleteStore{Store: store}, nil)
	require.NoError(t, dir.Delete(ctx, "fs1"))

	_, err = store.GetService(ctx, "fs1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Reusing the name replaces the stray credential
	created, err := services.NewDirectory(store, nil).Create(ctx, services.CreateRequest{
		Name: "fs1", Type: services.TypeCephFS, Size: 1, Replicas: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "fs1", created.Name)
}

func TestDirectory_CreateRejectsRawSizeOverflow(t *testing.T) {
	dir, _ := newDirectory(t)

	_, err := dir.Create(context.Background(), services.CreateRequest{
		Name: "huge", Type: services.TypeNFS, Size: 1 << 63, Replicas: 2,
	})
	require.ErrorIs(t, err, services.ErrInvalidRequest)

	_, err = dir.Get(context.Background(), "huge")
	assert.ErrorIs(t, err, services.ErrNotFound)

	desc, err := dir.Create(context.Background(), services.CreateRequest{
		Name: "big", Type: services.TypeNFS, Size: 1 << 62, Replicas: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3)<<62, desc.RawSize)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     services.CreateRequest
		wantErr bool
	}{
		{name: "valid", req: services.CreateRequest{Name: "fs1", Type: services.TypeCephFS, Size: 1, Replicas: 1}},
		{name: "underscore in name", req: services.CreateRequest{Name: "Bad_Name", Type: services.TypeCephFS, Size: 1, Replicas: 1}, wantErr: true},
		{name: "dot in name", req: services.CreateRequest{Name: "a.b", Type: services.TypeNFS, Size: 1, Replicas: 1}, wantErr: true},
		{name: "zero size", req: services.CreateRequest{Name: "fs1", Type: services.TypeNFS, Size: 0, Replicas: 1}, wantErr: true},
		{name: "overflow", req: services.CreateRequest{Name: "fs1", Type: services.TypeNFS, Size: 1 << 63, Replicas: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateRequest(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, services.ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDirectory_AuthorizationNotFound(t *testing.T) {
	dir, _ := newDirectory(t)

	_, err := dir.Authorization(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
