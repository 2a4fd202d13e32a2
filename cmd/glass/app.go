package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/pkg/config"
	"github.com/aquarist-labs/glass/pkg/dialog"
	"github.com/aquarist-labs/glass/pkg/inventory"
	servicespage "github.com/aquarist-labs/glass/pkg/pages/services"
	"github.com/aquarist-labs/glass/pkg/services"
)

// app holds the components built from the configuration.
type app struct {
	store     services.Store
	directory *services.Directory
	inventory inventory.Provider
	metrics   *config.MetricsResult
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	m := config.InitializeMetrics(cfg)

	store, err := config.CreateStore(ctx, &cfg.Store, m.Store)
	if err != nil {
		return nil, err
	}

	provider, err := config.CreateInventoryProvider(&cfg.Inventory)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	directory := services.NewDirectory(store, m.Directory)

	created, err := config.SeedServices(ctx, directory, cfg.Services)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create configured services: %w", err)
	}
	if created > 0 {
		logger.Info("Created %d configured service(s)", created)
	}

	return &app{
		store:     store,
		directory: directory,
		inventory: provider,
		metrics:   m,
	}, nil
}

func (a *app) page(dialogs dialog.Dialogs) *servicespage.Page {
	return servicespage.NewPage(a.directory, a.directory, a.inventory, dialogs)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Error("Failed to close store: %v", err)
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return 3
	case errors.Is(err, services.ErrAlreadyExists):
		return 4
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrNotCephFS),
		errors.Is(err, services.ErrUnknownType):
		return 2
	default:
		return 1
	}
}
