package config

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/pkg/inventory"
	"github.com/aquarist-labs/glass/pkg/metrics"
	"github.com/aquarist-labs/glass/pkg/services"
	"github.com/aquarist-labs/glass/pkg/store/badger"
	"github.com/aquarist-labs/glass/pkg/store/memory"
	"github.com/aquarist-labs/glass/pkg/store/s3"
)

// CreateStore creates the service store selected by cfg.Type.
//
// The type-specific map is decoded with mapstructure into the store's own
// configuration type. m is only used by remote backends; nil disables
// metrics.
func CreateStore(ctx context.Context, cfg *StoreConfig, m metrics.StoreMetrics) (services.Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.NewMemoryStore(), nil
	case "badger":
		return createBadgerStore(ctx, cfg.Badger)
	case "s3":
		return createS3Store(ctx, cfg.S3, m)
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
}

func createBadgerStore(ctx context.Context, options map[string]any) (services.Store, error) {
	var storeCfg badger.BadgerStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger store config: %w", err)
	}

	store, err := badger.NewBadgerStore(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Info("Badger store opened at %s", storeCfg.DBPath)
	return store, nil
}

func createS3Store(ctx context.Context, options map[string]any, m metrics.StoreMetrics) (services.Store, error) {
	var storeCfg s3.S3StoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 store config: %w", err)
	}

	if storeCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 store: bucket is required")
	}
	if storeCfg.Region == "" {
		return nil, fmt.Errorf("S3 store: region is required")
	}

	client, err := s3.NewClient(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	store, err := s3.NewS3Store(client, storeCfg, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 store: %w", err)
	}

	logger.Info("S3 store using bucket %s (prefix %q)", storeCfg.Bucket, storeCfg.KeyPrefix)
	return store, nil
}

// CreateInventoryProvider creates the inventory provider selected by cfg.Type.
func CreateInventoryProvider(cfg *InventoryConfig) (inventory.Provider, error) {
	switch cfg.Type {
	case "local":
		var providerCfg inventory.LocalProviderConfig
		if err := mapstructure.Decode(cfg.Local, &providerCfg); err != nil {
			return nil, fmt.Errorf("failed to decode local inventory config: %w", err)
		}
		return inventory.NewLocalProvider(providerCfg), nil
	case "static":
		var providerCfg inventory.StaticProviderConfig
		if err := mapstructure.Decode(cfg.Static, &providerCfg); err != nil {
			return nil, fmt.Errorf("failed to decode static inventory config: %w", err)
		}
		return inventory.NewStaticProvider(providerCfg), nil
	default:
		return nil, fmt.Errorf("unknown inventory type: %q", cfg.Type)
	}
}
