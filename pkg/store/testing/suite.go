// Package testing provides a conformance suite for services.Store
// implementations.
package testing

import (
	"testing"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
)

// StoreTestSuite tests the services.Store contract, not implementation
// details, so it can be reused across backends.
type StoreTestSuite struct {
	// NewStore creates a fresh, empty store for each test.
	NewStore func(t *testing.T) services.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(test *testing.T) {
	test.Run("Services", suite.RunServiceTests)
	test.Run("Credentials", suite.RunCredentialTests)
	test.Run("Healthcheck", suite.RunHealthcheckTests)
}

// SampleCephFS returns a CephFS descriptor for tests.
func SampleCephFS(name string) services.Desc {
	return services.Desc{
		Name:        name,
		Type:        services.TypeCephFS,
		Reservation: 10 << 30,
		RawSize:     20 << 30,
		Replicas:    2,
	}
}

// SampleNFS returns an NFS descriptor for tests.
func SampleNFS(name string) services.Desc {
	return services.Desc{
		Name:        name,
		Type:        services.TypeNFS,
		Reservation: 1 << 30,
		RawSize:     3 << 30,
		Replicas:    3,
	}
}

// SampleCredential returns a credential for the named service.
func SampleCredential(name string) mountcmd.Credential {
	return mountcmd.Credential{
		Entity: "client." + name,
		Key:    "AQBzbWVrZXkAAAAAEAAAAHNlY3JldHNlY3JldDEyMw==",
	}
}
