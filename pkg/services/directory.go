package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/pkg/cephx"
	"github.com/aquarist-labs/glass/pkg/metrics"
	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/go-playground/validator/v10"
)

// EntityPrefix is prepended to a CephFS service name to form its CephX entity.
const EntityPrefix = "client."

var validate = validator.New()

// CreateRequest describes a service to create.
type CreateRequest struct {
	// Name must be a DNS label so it can be used as a CephX entity suffix
	Name string `json:"name" validate:"required,max=63,hostname_rfc1123,excludes=."`

	Type Type `json:"type" validate:"required,oneof=cephfs nfs"`

	// Size is the requested reservation in bytes
	Size uint64 `json:"size" validate:"gt=0"`

	Replicas int `json:"replicas" validate:"min=1,max=3"`
}

// ValidateRequest checks req against its field rules and rejects sizes whose
// raw size (size times replicas) would not fit in a uint64. Errors wrap
// ErrInvalidRequest.
func ValidateRequest(req CreateRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if req.Size > math.MaxUint64/uint64(req.Replicas) {
		return fmt.Errorf("%w: Size: %d bytes with %d replicas exceeds the addressable raw size",
			ErrInvalidRequest, req.Size, req.Replicas)
	}
	return nil
}

// Directory is the service directory and CephFS authorization API.
type Directory struct {
	store   Store
	metrics metrics.DirectoryMetrics
	now     func() time.Time
}

// NewDirectory creates a Directory backed by store. A nil m disables metrics.
func NewDirectory(store Store, m metrics.DirectoryMetrics) *Directory {
	if m == nil {
		m = metrics.NewNoopDirectoryMetrics()
	}
	return &Directory{
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

// List returns all services ordered by name.
func (d *Directory) List(ctx context.Context) (result []Desc, err error) {
	defer d.observe("list", time.Now(), &err)

	result, err = d.store.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	d.updateCounts(result)
	return result, nil
}

// Get returns the named service.
func (d *Directory) Get(ctx context.Context, name string) (desc *Desc, err error) {
	defer d.observe("get", time.Now(), &err)

	desc, err = d.store.GetService(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get service %q: %w", name, err)
	}
	return desc, nil
}

// Create validates req and stores a new service. CephFS services also get a
// freshly generated credential for entity "client.<name>".
func (d *Directory) Create(ctx context.Context, req CreateRequest) (desc *Desc, err error) {
	defer d.observe("create", time.Now(), &err)

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	created := Desc{
		Name:        req.Name,
		Type:        req.Type,
		Reservation: req.Size,
		RawSize:     req.Size * uint64(req.Replicas),
		Replicas:    req.Replicas,
	}

	var cred *mountcmd.Credential
	switch req.Type {
	case TypeCephFS:
		key, err := cephx.NewKey(d.now())
		if err != nil {
			return nil, fmt.Errorf("failed to generate key for %q: %w", req.Name, err)
		}
		cred = &mountcmd.Credential{Entity: EntityPrefix + req.Name, Key: key}
	case TypeNFS:
	default:
		panic(fmt.Sprintf("services: unhandled service type %q", req.Type))
	}

	if err := d.store.PutService(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create service %q: %w", req.Name, err)
	}

	if cred != nil {
		if err := d.store.PutCredential(ctx, req.Name, *cred); err != nil {
			// Roll back so the service never exists without its credential
			if delErr := d.store.DeleteService(ctx, req.Name); delErr != nil {
				logger.Error("Failed to roll back service %q: %v", req.Name, delErr)
			}
			return nil, fmt.Errorf("failed to store credential for %q: %w", req.Name, err)
		}
	}

	logger.Info("Service created: %s (type=%s, size=%d, replicas=%d)",
		created.Name, created.Type, created.Reservation, created.Replicas)

	return &created, nil
}

// Delete removes the named service and then its credential, if any. Failing
// to remove the credential is logged, not returned.
func (d *Directory) Delete(ctx context.Context, name string) (err error) {
	defer d.observe("delete", time.Now(), &err)

	desc, err := d.store.GetService(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to delete service %q: %w", name, err)
	}

	// A CephFS service must never exist without its credential. A stray
	// credential is replaced when the name is reused.
	if err := d.store.DeleteService(ctx, name); err != nil {
		return fmt.Errorf("failed to delete service %q: %w", name, err)
	}

	if desc.Type == TypeCephFS {
		if err := d.store.DeleteCredential(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
			logger.Warn("Service %s deleted but its credential was not: %v", name, err)
		}
	}

	logger.Info("Service deleted: %s", name)
	return nil
}

// Authorization returns the CephX credential of a CephFS service.
func (d *Directory) Authorization(ctx context.Context, name string) (cred *mountcmd.Credential, err error) {
	defer d.observe("authorization", time.Now(), &err)

	desc, err := d.store.GetService(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize %q: %w", name, err)
	}

	switch desc.Type {
	case TypeCephFS:
	case TypeNFS:
		return nil, fmt.Errorf("failed to authorize %q: %w", name, ErrNotCephFS)
	default:
		panic(fmt.Sprintf("services: unhandled service type %q", desc.Type))
	}

	cred, err = d.store.GetCredential(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential for %q: %w", name, err)
	}
	return cred, nil
}

// Healthcheck reports whether the backing store is usable.
func (d *Directory) Healthcheck(ctx context.Context) error {
	if err := d.store.Healthcheck(ctx); err != nil {
		return fmt.Errorf("store unhealthy: %w", err)
	}
	return nil
}

func (d *Directory) observe(operation string, start time.Time, err *error) {
	d.metrics.RecordOperation(operation, time.Since(start), *err)
}

func (d *Directory) updateCounts(list []Desc) {
	counts := make(map[Type]int, len(AllTypes))
	for _, desc := range list {
		counts[desc.Type]++
	}
	for _, t := range AllTypes {
		d.metrics.SetServiceCount(string(t), counts[t])
	}
}
