// Package services implements the services page of the console: the table
// of configured services, the add-service flow and the per-service actions
// (credentials and mount command dialogs).
package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/pkg/datatable"
	"github.com/aquarist-labs/glass/pkg/dialog"
	"github.com/aquarist-labs/glass/pkg/inventory"
	"github.com/aquarist-labs/glass/pkg/mountcmd"
	svc "github.com/aquarist-labs/glass/pkg/services"
)

// Lister returns the configured services.
type Lister interface {
	List(ctx context.Context) ([]svc.Desc, error)
}

// Authorizer returns the credential of a CephFS service.
type Authorizer interface {
	Authorization(ctx context.Context, name string) (*mountcmd.Credential, error)
}

// ActionItem is an entry of a row's action menu.
type ActionItem struct {
	Title string
	Run   func(ctx context.Context) error
}

// Page is the services page controller.
type Page struct {
	lister     Lister
	authorizer Authorizer
	inventory  inventory.Provider
	dialogs    dialog.Dialogs
	table      *datatable.Table

	mu                sync.RWMutex
	loading           bool
	firstLoadComplete bool
	data              []svc.Desc
}

func NewPage(lister Lister, authorizer Authorizer, inv inventory.Provider, dialogs dialog.Dialogs) *Page {
	return &Page{
		lister:     lister,
		authorizer: authorizer,
		inventory:  inv,
		dialogs:    dialogs,
		table:      datatable.New(Columns()...),
	}
}

// Columns returns the column configuration of the services table.
func Columns() []datatable.Column {
	typeLabels := make(map[string]string, len(svc.AllTypes))
	for _, t := range svc.AllTypes {
		typeLabels[string(t)] = t.Label()
	}

	return []datatable.Column{
		{Name: "Name", Prop: "name", Sortable: true},
		{
			Name:               "Type",
			Prop:               "type",
			Sortable:           true,
			CellTemplate:       datatable.CellTemplateMap,
			CellTemplateConfig: typeLabels,
		},
		{Name: "Allocated Size", Prop: "reservation", Sortable: true, Pipe: datatable.BytesToSize{}},
		{Name: "Raw Size", Prop: "raw_size", Sortable: true, Pipe: datatable.BytesToSize{}},
		{Name: "Flavor", Prop: "replicas", Sortable: true, Pipe: datatable.RedundancyLevel{}},
		{Prop: "name", CellTemplate: datatable.CellTemplateActionMenu},
	}
}

func (p *Page) Table() *datatable.Table {
	return p.table
}

// Data returns a copy of the rows loaded by the last successful LoadData.
func (p *Page) Data() []svc.Desc {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.data)
}

func (p *Page) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

func (p *Page) FirstLoadComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.firstLoadComplete
}

// LoadData refreshes the table rows. On failure the previous rows are kept.
func (p *Page) LoadData(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	data, err := p.lister.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}
	p.data = data
	p.firstLoadComplete = true
	return nil
}

// AddService runs the create dialog for t and reloads the table when a
// service was created.
func (p *Page) AddService(ctx context.Context, t svc.Type) (bool, error) {
	var (
		created bool
		err     error
	)

	switch t {
	case svc.TypeCephFS:
		created, err = p.dialogs.OpenCephfs(ctx)
	case svc.TypeNFS:
		created, err = p.dialogs.OpenNfs(ctx)
	default:
		panic(fmt.Sprintf("services page: unhandled service type %q", t))
	}
	if err != nil {
		return false, fmt.Errorf("failed to add %s service: %w", t.Label(), err)
	}
	if !created {
		return false, nil
	}

	return true, p.LoadData(ctx)
}

// ActionMenu returns the actions available for desc.
func (p *Page) ActionMenu(desc svc.Desc) []ActionItem {
	switch desc.Type {
	case svc.TypeCephFS:
		return []ActionItem{
			{
				Title: "Show credentials",
				Run: func(ctx context.Context) error {
					return p.ShowCredentials(ctx, desc.Name)
				},
			},
			{
				Title: "Show mount command",
				Run: func(ctx context.Context) error {
					return p.ShowMountCommand(ctx, desc.Name)
				},
			},
		}
	case svc.TypeNFS:
		return []ActionItem{}
	default:
		panic(fmt.Sprintf("services page: unhandled service type %q", desc.Type))
	}
}

// CredentialsForm builds the dialog showing the CephX credential of name.
func (p *Page) CredentialsForm(ctx context.Context, name string) (dialog.Form, error) {
	cred, err := p.authorizer.Authorization(ctx, name)
	if err != nil {
		return dialog.Form{}, fmt.Errorf("failed to get credentials of %q: %w", name, err)
	}

	return dialog.Form{
		Title: "Credentials",
		Width: "40%",
		Fields: []dialog.Field{
			{
				Type:     dialog.FieldTypeText,
				Name:     "entity",
				Label:    "Entity",
				Value:    cred.Entity,
				ReadOnly: true,
			},
			{
				Type:     dialog.FieldTypePassword,
				Name:     "key",
				Label:    "Key",
				Value:    cred.Key,
				ReadOnly: true,
			},
		},
		OKButtonVisible:  false,
		CancelButtonText: "Close",
	}, nil
}

// MountCommandForm builds the dialog showing the command line that mounts
// the CephFS service name. Credential and inventory are fetched in
// parallel; either failure aborts the other.
func (p *Page) MountCommandForm(ctx context.Context, name string) (dialog.Form, error) {
	var (
		cred *mountcmd.Credential
		inv  *inventory.Inventory
	)

	fetch := pool.New().WithContext(ctx).WithCancelOnError()
	fetch.Go(func(ctx context.Context) error {
		c, err := p.authorizer.Authorization(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to get credentials of %q: %w", name, err)
		}
		cred = c
		return nil
	})
	fetch.Go(func(ctx context.Context) error {
		i, err := p.inventory.Inventory(ctx)
		if err != nil {
			return fmt.Errorf("failed to get node inventory: %w", err)
		}
		inv = i
		return nil
	})
	if err := fetch.Wait(); err != nil {
		return dialog.Form{}, err
	}

	cmdline := mountcmd.Build(*cred, inv.NICs)
	logger.Debug("Mount command for %s built from %d interfaces", name, len(inv.NICs))

	return dialog.Form{
		Title:    "Mount command",
		Subtitle: "Use the following command line to mount the CephFS file system.",
		Width:    "60%",
		Fields: []dialog.Field{
			{
				Type:                     dialog.FieldTypeText,
				Name:                     "cmdline",
				Value:                    cmdline,
				ReadOnly:                 true,
				HasCopyToClipboardButton: true,
				Class:                    dialog.ClassMonospaced,
			},
		},
		OKButtonVisible:  false,
		CancelButtonText: "Close",
	}, nil
}

func (p *Page) ShowCredentials(ctx context.Context, name string) error {
	form, err := p.CredentialsForm(ctx, name)
	if err != nil {
		return err
	}
	return p.dialogs.Open(ctx, form)
}

func (p *Page) ShowMountCommand(ctx context.Context, name string) error {
	form, err := p.MountCommandForm(ctx, name)
	if err != nil {
		return err
	}
	return p.dialogs.Open(ctx, form)
}
