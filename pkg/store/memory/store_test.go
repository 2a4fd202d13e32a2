package memory

import (
	"testing"

	"github.com/aquarist-labs/glass/pkg/services"
	storetesting "github.com/aquarist-labs/glass/pkg/store/testing"
)

func TestMemoryStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) services.Store {
			return NewMemoryStore()
		},
	}
	suite.Run(t)
}
