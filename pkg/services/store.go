package services

import (
	"context"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
)

// Store persists service descriptors and CephFS credentials.
//
// Implementations must be safe for concurrent use. Lookups of missing
// entries return ErrNotFound; PutService on an existing name returns
// ErrAlreadyExists.
type Store interface {
	// ListServices returns all services ordered by name.
	ListServices(ctx context.Context) ([]Desc, error)

	GetService(ctx context.Context, name string) (*Desc, error)

	// PutService creates a new service entry.
	PutService(ctx context.Context, desc Desc) error

	DeleteService(ctx context.Context, name string) error

	GetCredential(ctx context.Context, name string) (*mountcmd.Credential, error)

	// PutCredential creates or replaces the credential of a service.
	PutCredential(ctx context.Context, name string, cred mountcmd.Credential) error

	DeleteCredential(ctx context.Context, name string) error

	// Healthcheck verifies the backend is reachable.
	Healthcheck(ctx context.Context) error

	Close() error
}
