package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func (suite *StoreTestSuite) RunHealthcheckTests(test *testing.T) {
	test.Run("Healthcheck_Open", suite.TestHealthcheck_Open)
	test.Run("Healthcheck_CancelledContext", suite.TestHealthcheck_CancelledContext)
}

func (suite *StoreTestSuite) TestHealthcheck_Open(test *testing.T) {
	store := suite.NewStore(test)
	assert.NoError(test, store.Healthcheck(context.Background()))
}

func (suite *StoreTestSuite) TestHealthcheck_CancelledContext(test *testing.T) {
	store := suite.NewStore(test)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(test, store.Healthcheck(ctx))
}
