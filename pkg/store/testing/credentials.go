package testing

import (
	"context"
	"testing"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *StoreTestSuite) RunCredentialTests(test *testing.T) {
	test.Run("PutCredential_Success", suite.TestPutCredential_Success)
	test.Run("PutCredential_Replace", suite.TestPutCredential_Replace)
	test.Run("GetCredential_NotFound", suite.TestGetCredential_NotFound)
	test.Run("DeleteCredential_Success", suite.TestDeleteCredential_Success)
	test.Run("DeleteCredential_NotFound", suite.TestDeleteCredential_NotFound)
}

func (suite *StoreTestSuite) TestPutCredential_Success(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	cred := SampleCredential("fs1")
	require.NoError(test, store.PutCredential(ctx, "fs1", cred))

	got, err := store.GetCredential(ctx, "fs1")
	require.NoError(test, err)
	assert.Equal(test, cred, *got)
}

func (suite *StoreTestSuite) TestPutCredential_Replace(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, store.PutCredential(ctx, "fs1", SampleCredential("fs1")))

	rotated := mountcmd.Credential{Entity: "client.fs1", Key: "rotated"}
	require.NoError(test, store.PutCredential(ctx, "fs1", rotated))

	got, err := store.GetCredential(ctx, "fs1")
	require.NoError(test, err)
	assert.Equal(test, "rotated", got.Key)
}

func (suite *StoreTestSuite) TestGetCredential_NotFound(test *testing.T) {
	store := suite.NewStore(test)

	_, err := store.GetCredential(context.Background(), "missing")
	assert.ErrorIs(test, err, services.ErrNotFound)
}

func (suite *StoreTestSuite) TestDeleteCredential_Success(test *testing.T) {
	store := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, store.PutCredential(ctx, "fs1", SampleCredential("fs1")))
	require.NoError(test, store.DeleteCredential(ctx, "fs1"))

	_, err := store.GetCredential(ctx, "fs1")
	assert.ErrorIs(test, err, services.ErrNotFound)
}

func (suite *StoreTestSuite) TestDeleteCredential_NotFound(test *testing.T) {
	store := suite.NewStore(test)

	err := store.DeleteCredential(context.Background(), "missing")
	assert.ErrorIs(test, err, services.ErrNotFound)
}
