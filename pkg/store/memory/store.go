package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
)

// MemoryStore implements services.Store using in-memory maps.
//
// It is suitable for tests, demos and ephemeral deployments; nothing
// survives a restart. All operations are protected by a single read-write
// mutex.
type MemoryStore struct {
	mu          sync.RWMutex
	services    map[string]services.Desc
	credentials map[string]mountcmd.Credential
	closed      bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		services:    make(map[string]services.Desc),
		credentials: make(map[string]mountcmd.Credential),
	}
}

// ListServices returns a copy of every descriptor, ordered by name.
//
// Thread Safety:
// Holds the read lock for the duration of the copy.
func (s *MemoryStore) ListServices(ctx context.Context) ([]services.Desc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]services.Desc, 0, len(s.services))
	for _, desc := range s.services {
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetService returns a copy of the named descriptor, or services.ErrNotFound.
func (s *MemoryStore) GetService(ctx context.Context, name string) (*services.Desc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	desc, ok := s.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrNotFound, name)
	}
	return &desc, nil
}

// PutService creates a service entry.
//
// Returns services.ErrAlreadyExists if the name is taken. The check and the
// insert happen under the same write lock.
func (s *MemoryStore) PutService(ctx context.Context, desc services.Desc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.services[desc.Name]; exists {
		return fmt.Errorf("%w: %s", services.ErrAlreadyExists, desc.Name)
	}
	s.services[desc.Name] = desc
	return nil
}

// DeleteService removes the named service, or returns services.ErrNotFound.
func (s *MemoryStore) DeleteService(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.services[name]; !exists {
		return fmt.Errorf("%w: %s", services.ErrNotFound, name)
	}
	delete(s.services, name)
	return nil
}

func (s *MemoryStore) GetCredential(ctx context.Context, name string) (*mountcmd.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[name]
	if !ok {
		return nil, fmt.Errorf("%w: credential for %s", services.ErrNotFound, name)
	}
	return &cred, nil
}

// PutCredential creates or replaces the credential of a service.
func (s *MemoryStore) PutCredential(ctx context.Context, name string, cred mountcmd.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials[name] = cred
	return nil
}

func (s *MemoryStore) DeleteCredential(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[name]; !ok {
		return fmt.Errorf("%w: credential for %s", services.ErrNotFound, name)
	}
	delete(s.credentials, name)
	return nil
}

// Healthcheck verifies the store is operational.
//
// There are no external dependencies, so the only failure modes are a
// cancelled context and a closed store.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - error: nil if healthy, context error or closed-store error otherwise
func (s *MemoryStore) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fmt.Errorf("memory store is closed")
	}
	return nil
}

// Close marks the store as closed. Data is kept until the store is garbage
// collected; only Healthcheck observes the closed state.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
