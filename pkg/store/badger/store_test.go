package badger

import (
	"context"
	"testing"

	"github.com/aquarist-labs/glass/pkg/services"
	storetesting "github.com/aquarist-labs/glass/pkg/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dir string) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore(context.Background(), BadgerStoreConfig{DBPath: dir})
	require.NoError(t, err)
	return store
}

func TestBadgerStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) services.Store {
			store := newTestStore(t, t.TempDir())
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}
	suite.Run(t)
}

func TestBadgerStore_InMemory(t *testing.T) {
	store, err := NewBadgerStore(context.Background(), BadgerStoreConfig{InMemory: true})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.PutService(context.Background(), storetesting.SampleCephFS("fs1")))
	list, err := store.ListServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBadgerStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := newTestStore(t, dir)
	require.NoError(t, store.PutService(ctx, storetesting.SampleCephFS("fs1")))
	require.NoError(t, store.PutCredential(ctx, "fs1", storetesting.SampleCredential("fs1")))
	require.NoError(t, store.Close())

	reopened := newTestStore(t, dir)
	defer func() { _ = reopened.Close() }()

	desc, err := reopened.GetService(ctx, "fs1")
	require.NoError(t, err)
	assert.Equal(t, storetesting.SampleCephFS("fs1"), *desc)

	cred, err := reopened.GetCredential(ctx, "fs1")
	require.NoError(t, err)
	assert.Equal(t, "client.fs1", cred.Entity)
}

func TestNewBadgerStore_RequiresPath(t *testing.T) {
	_, err := NewBadgerStore(context.Background(), BadgerStoreConfig{})
	assert.Error(t, err)
}
