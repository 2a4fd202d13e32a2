package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/pkg/services"
)

// CreateRequest converts the declaration into a directory request.
func (s ServiceConfig) CreateRequest() (services.CreateRequest, error) {
	serviceType, err := services.ParseType(s.Type)
	if err != nil {
		return services.CreateRequest{}, err
	}

	size, err := humanize.ParseBytes(s.Size)
	if err != nil {
		return services.CreateRequest{}, fmt.Errorf("invalid size %q: %w", s.Size, err)
	}

	return services.CreateRequest{
		Name:     s.Name,
		Type:     serviceType,
		Size:     size,
		Replicas: s.Replicas,
	}, nil
}

// ServiceCreator creates services.
type ServiceCreator interface {
	Create(ctx context.Context, req services.CreateRequest) (*services.Desc, error)
}

// SeedServices creates the declared services that do not exist yet and
// returns how many were created.
func SeedServices(ctx context.Context, creator ServiceCreator, list []ServiceConfig) (int, error) {
	created := 0
	for _, svc := range list {
		req, err := svc.CreateRequest()
		if err != nil {
			return created, fmt.Errorf("service %q: %w", svc.Name, err)
		}

		if _, err := creator.Create(ctx, req); err != nil {
			if errors.Is(err, services.ErrAlreadyExists) {
				logger.Debug("Service %s already exists, not seeding", svc.Name)
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
