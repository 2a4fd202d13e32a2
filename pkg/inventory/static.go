package inventory

import (
	"context"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
)

// StaticProvider returns a fixed inventory, typically taken from the
// configuration file.
type StaticProvider struct {
	inventory Inventory
}

// StaticProviderConfig is decoded from the inventory.static config section.
type StaticProviderConfig struct {
	Hostname string                     `mapstructure:"hostname"`
	NICs     []mountcmd.NetworkInterface `mapstructure:"nics"`
}

func NewStaticProvider(cfg StaticProviderConfig) *StaticProvider {
	nics := make([]mountcmd.NetworkInterface, len(cfg.NICs))
	copy(nics, cfg.NICs)
	return &StaticProvider{inventory: Inventory{Hostname: cfg.Hostname, NICs: nics}}
}

// Inventory returns a copy of the configured inventory.
func (p *StaticProvider) Inventory(ctx context.Context) (*Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nics := make([]mountcmd.NetworkInterface, len(p.inventory.NICs))
	copy(nics, p.inventory.NICs)
	return &Inventory{Hostname: p.inventory.Hostname, NICs: nics}, nil
}
