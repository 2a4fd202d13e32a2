package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarist-labs/glass/pkg/inventory"
	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
	"github.com/aquarist-labs/glass/pkg/store/badger"
	"github.com/aquarist-labs/glass/pkg/store/memory"
)

func TestCreateStore_Memory(t *testing.T) {
	store, err := CreateStore(context.Background(), &StoreConfig{Type: "memory"}, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &memory.MemoryStore{}, store)
}

func TestCreateStore_Badger(t *testing.T) {
	cfg := &StoreConfig{
		Type:   "badger",
		Badger: map[string]any{"db_path": filepath.Join(t.TempDir(), "db")},
	}

	store, err := CreateStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &badger.BadgerStore{}, store)
	assert.NoError(t, store.Healthcheck(context.Background()))
}

func TestCreateStore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StoreConfig
		wantErr string
	}{
		{"unknown type", StoreConfig{Type: "etcd"}, "unknown store type"},
		{"badger without path", StoreConfig{Type: "badger", Badger: map[string]any{}}, "db_path is required"},
		{"badger bad option", StoreConfig{Type: "badger", Badger: map[string]any{"in_memory": "yes"}}, "decode"},
		{"s3 without bucket", StoreConfig{Type: "s3", S3: map[string]any{"region": "us-east-1"}}, "bucket is required"},
		{"s3 without region", StoreConfig{Type: "s3", S3: map[string]any{"bucket": "glass"}}, "region is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateStore(context.Background(), &tt.cfg, nil)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCreateInventoryProvider_Static(t *testing.T) {
	cfg := &InventoryConfig{
		Type: "static",
		Static: map[string]any{
			"hostname": "demo",
			"nics": []any{
				map[string]any{"name": "eth0", "iftype": "physical", "ipv4_address": "10.0.0.5/24"},
				map[string]any{"name": "lo", "iftype": "loopback"},
			},
		},
	}

	provider, err := CreateInventoryProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &inventory.StaticProvider{}, provider)

	inv, err := provider.Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo", inv.Hostname)
	assert.Equal(t, []mountcmd.NetworkInterface{
		{Name: "eth0", Type: mountcmd.InterfaceTypePhysical, IPv4Address: "10.0.0.5/24"},
		{Name: "lo", Type: mountcmd.InterfaceTypeLoopback},
	}, inv.NICs)
}

func TestCreateInventoryProvider_Local(t *testing.T) {
	provider, err := CreateInventoryProvider(&InventoryConfig{
		Type:  "local",
		Local: map[string]any{"sysfs_root": "/sys"},
	})
	require.NoError(t, err)
	assert.IsType(t, &inventory.LocalProvider{}, provider)

	_, err = CreateInventoryProvider(&InventoryConfig{Type: "lldp"})
	assert.ErrorContains(t, err, "unknown inventory type")
}

func TestSeedServices(t *testing.T) {
	ctx := context.Background()
	dir := services.NewDirectory(memory.NewMemoryStore(), nil)

	list := []ServiceConfig{
		{Name: "fs1", Type: "cephfs", Size: "10GiB", Replicas: 2},
		{Name: "share", Type: "nfs", Size: "500MB", Replicas: 1},
	}

	created, err := SeedServices(ctx, dir, list)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	desc, err := dir.Get(ctx, "fs1")
	require.NoError(t, err)
	assert.Equal(t, uint64(10<<30), desc.Reservation)
	assert.Equal(t, uint64(20<<30), desc.RawSize)

	desc, err = dir.Get(ctx, "share")
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000), desc.Reservation)

	// Seeding again is a no-op
	created, err = SeedServices(ctx, dir, list)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	result := InitializeMetrics(GetDefaultConfig())

	assert.Nil(t, result.Server)
	assert.NotNil(t, result.Directory)
	assert.NotNil(t, result.API)
	assert.NotNil(t, result.Store)
}
