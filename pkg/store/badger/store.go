package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
)

// BadgerStore implements services.Store on top of BadgerDB.
//
// Descriptors and credentials are stored as JSON values under prefixed keys
// (see keys.go). Every operation runs in its own Badger transaction, so the
// store is safe for concurrent use without additional locking.
type BadgerStore struct {
	db *badger.DB
}

// BadgerStoreConfig contains configuration for creating a BadgerDB store.
type BadgerStoreConfig struct {
	// DBPath is the directory where BadgerDB keeps its files
	DBPath string `mapstructure:"db_path"`

	// InMemory runs BadgerDB without touching disk (DBPath is ignored)
	InMemory bool `mapstructure:"in_memory"`

	// BlockCacheSizeMB sizes the block cache. Default: 16
	BlockCacheSizeMB int64 `mapstructure:"block_cache_size_mb"`
}

// NewBadgerStore opens (or creates) a BadgerDB store.
func NewBadgerStore(ctx context.Context, config BadgerStoreConfig) (*BadgerStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !config.InMemory && config.DBPath == "" {
		return nil, fmt.Errorf("badger store: db_path is required")
	}

	opts := badger.DefaultOptions(config.DBPath)
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	blockCacheMB := config.BlockCacheSizeMB
	if blockCacheMB == 0 {
		blockCacheMB = 16
	}

	// The data set is a handful of small JSON documents
	opts = opts.WithLoggingLevel(badger.WARNING).
		WithCompression(options.None).
		WithBlockCacheSize(blockCacheMB << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", config.DBPath, err)
	}

	return &BadgerStore{db: db}, nil
}

// ListServices returns every service descriptor ordered by name.
//
// Badger iterates keys in byte order, so a prefix scan over "svc:" already
// yields names in ascending order.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []services.Desc: All services, empty (not nil) when there are none
//   - error: Context errors, decode or transaction errors
func (s *BadgerStore) ListServices(ctx context.Context) ([]services.Desc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := []services.Desc{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixService)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var desc services.Desc
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &desc)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			result = append(result, desc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetService returns the descriptor of the named service.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Service name
//
// Returns:
//   - *services.Desc: A copy of the stored descriptor
//   - error: services.ErrNotFound if absent, context or transaction errors
func (s *BadgerStore) GetService(ctx context.Context, name string) (*services.Desc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var desc services.Desc
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyService(name), &desc)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", services.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

// PutService creates a service entry.
//
// The existence check and the write happen in the same read-write
// transaction. Badger's optimistic concurrency control aborts one of two
// racing creators with badger.ErrConflict, so a name can never be stored
// twice.
//
// Parameters:
//   - ctx: Context for cancellation
//   - desc: Descriptor to store, keyed by desc.Name
//
// Returns:
//   - error: services.ErrAlreadyExists if the name is taken, context,
//     encode or transaction errors
func (s *BadgerStore) PutService(ctx context.Context, desc services.Desc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	val, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("failed to encode service %s: %w", desc.Name, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyService(desc.Name))
		if err == nil {
			return fmt.Errorf("%w: %s", services.ErrAlreadyExists, desc.Name)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(keyService(desc.Name), val)
	})
}

// DeleteService removes the named service entry. The credential, if any, is
// left alone; callers remove it with DeleteCredential.
//
// Returns services.ErrNotFound if the service does not exist.
func (s *BadgerStore) DeleteService(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.deleteKey(keyService(name), name)
}

// GetCredential returns the CephX credential stored for a service.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Service name the credential belongs to
//
// Returns:
//   - *mountcmd.Credential: The stored entity and key
//   - error: services.ErrNotFound if absent, context or transaction errors
func (s *BadgerStore) GetCredential(ctx context.Context, name string) (*mountcmd.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cred mountcmd.Credential
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyCredential(name), &cred)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: credential for %s", services.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// PutCredential creates or replaces the credential of a service.
//
// Unlike PutService this is an upsert: a credential left behind by an
// interrupted delete is simply overwritten when the name is reused.
func (s *BadgerStore) PutCredential(ctx context.Context, name string, cred mountcmd.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	val, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential for %s: %w", name, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyCredential(name), val)
	})
}

// DeleteCredential removes the credential of a service.
//
// Returns services.ErrNotFound if no credential is stored.
func (s *BadgerStore) DeleteCredential(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.deleteKey(keyCredential(name), "credential for "+name)
}

// Healthcheck verifies a read transaction can be started.
func (s *BadgerStore) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.View(func(txn *badger.Txn) error { return nil }); err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the database. The store must not
// be used afterwards.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}
	return nil
}

func (s *BadgerStore) deleteKey(key []byte, what string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", services.ErrNotFound, what)
			}
			return err
		}
		return txn.Delete(key)
	})
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
