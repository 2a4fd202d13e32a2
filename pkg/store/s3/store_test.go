package s3

import (
	"context"
	"testing"

	"github.com/aquarist-labs/glass/pkg/services"
	storetesting "github.com/aquarist-labs/glass/pkg/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Store(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) services.Store {
			store, err := NewS3Store(newFakeClient(), S3StoreConfig{Bucket: "glass", KeyPrefix: "console"}, nil)
			require.NoError(t, err)
			return store
		},
	}
	suite.Run(t)
}

func TestS3Store_KeyLayout(t *testing.T) {
	client := newFakeClient()
	store, err := NewS3Store(client, S3StoreConfig{Bucket: "glass", KeyPrefix: "console/"}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.PutService(ctx, storetesting.SampleCephFS("fs1")))
	require.NoError(t, store.PutCredential(ctx, "fs1", storetesting.SampleCredential("fs1")))

	assert.Contains(t, client.objects, "console/services/fs1.json")
	assert.Contains(t, client.objects, "console/credentials/fs1.json")
}

func TestS3Store_ListPaginates(t *testing.T) {
	client := newFakeClient()
	store, err := NewS3Store(client, S3StoreConfig{Bucket: "glass"}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for _, name := range []string{"e", "d", "c", "b", "a"} {
		require.NoError(t, store.PutService(ctx, storetesting.SampleNFS(name)))
	}

	list, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "e", list[4].Name)
	assert.Equal(t, 3, client.calls["ListObjectsV2"])
}

func TestS3Store_ConditionalCreate(t *testing.T) {
	client := newFakeClient()
	store, err := NewS3Store(client, S3StoreConfig{Bucket: "glass"}, nil)
	require.NoError(t, err)

	// Simulate a racing writer that created the object after our HeadObject
	ctx := context.Background()
	require.NoError(t, store.putJSON(ctx, store.serviceKey("fs1"), storetesting.SampleCephFS("fs1"), false))

	err = store.putJSON(ctx, store.serviceKey("fs1"), storetesting.SampleNFS("fs1"), true)
	assert.True(t, isPreconditionFailed(err))
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(newFakeClient(), S3StoreConfig{}, nil)
	assert.Error(t, err)
}
