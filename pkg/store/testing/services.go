package testing

import (
	"context"
	"testing"

	"github.com/aquarist-labs/glass/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *StoreTestSuite) RunServiceTests(test *testing.T) {
	test.Run("ListServices_Empty", suite.TestListServices_Empty)
	test.Run("ListServices_SortedByName", suite.TestListServices_SortedByName)
	test.Run("PutService_Success", suite.TestPutService_Success)
	test.Run("PutService_Duplicate", suite.TestPutService_Duplicate)
	test.Run("GetService_NotFound", suite.TestGetService_NotFound)
	test.Run("DeleteService_Success", suite.TestDeleteService_Success)
	test.Run("DeleteService_NotFound", suite.TestDeleteService_NotFound)
}

func (suite *StoreTestSuite) TestListServices_Empty(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	list, err := store.ListServices(ctx)
	require.NoError(test, err)
	assert.Empty(test, list)
}

func (suite *StoreTestSuite) TestListServices_SortedByName(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	for _, desc := range []services.Desc{SampleNFS("zeta"), SampleCephFS("alpha"), SampleCephFS("mid")} {
		require.NoError(test, store.PutService(ctx, desc))
	}

	list, err := store.ListServices(ctx)
	require.NoError(test, err)
	require.Len(test, list, 3)

	names := []string{list[0].Name, list[1].Name, list[2].Name}
	assert.Equal(test, []string{"alpha", "mid", "zeta"}, names)
}

func (suite *StoreTestSuite) TestPutService_Success(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	tests := []struct {
		name string
		desc services.Desc
	}{
		{name: "cephfs", desc: SampleCephFS("fs1")},
		{name: "nfs", desc: SampleNFS("share1")},
	}

	for _, tt := range tests {
		test.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.PutService(ctx, tt.desc))

			got, err := store.GetService(ctx, tt.desc.Name)
			require.NoError(t, err)
			assert.Equal(t, tt.desc, *got)
		})
	}
}

func (suite *StoreTestSuite) TestPutService_Duplicate(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, store.PutService(ctx, SampleCephFS("fs1")))

	err := store.PutService(ctx, SampleNFS("fs1"))
	require.Error(test, err)
	assert.ErrorIs(test, err, services.ErrAlreadyExists)

	// Original entry is untouched
	got, err := store.GetService(ctx, "fs1")
	require.NoError(test, err)
	assert.Equal(test, services.TypeCephFS, got.Type)
}

func (suite *StoreTestSuite) TestGetService_NotFound(test *testing.T) {
	store := suite.NewStore(test)

	_, err := store.GetService(context.Background(), "missing")
	assert.ErrorIs(test, err, services.ErrNotFound)
}

func (suite *StoreTestSuite) TestDeleteService_Success(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, store.PutService(ctx, SampleCephFS("fs1")))
	require.NoError(test, store.DeleteService(ctx, "fs1"))

	_, err := store.GetService(ctx, "fs1")
	assert.ErrorIs(test, err, services.ErrNotFound)

	// Name can be reused after deletion
	require.NoError(test, store.PutService(ctx, SampleNFS("fs1")))
}

func (suite *StoreTestSuite) TestDeleteService_NotFound(test *testing.T) {
	store := suite.NewStore(test)

	err := store.DeleteService(context.Background(), "missing")
	assert.ErrorIs(test, err, services.ErrNotFound)
}
