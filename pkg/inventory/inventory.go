// Package inventory reports the local node's network interfaces.
package inventory

import (
	"context"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
)

// Inventory is a snapshot of the node's network configuration.
type Inventory struct {
	Hostname string `json:"hostname" yaml:"hostname"`

	// NICs are listed in enumeration order
	NICs []mountcmd.NetworkInterface `json:"nics" yaml:"nics"`
}

// Provider returns the current inventory.
type Provider interface {
	Inventory(ctx context.Context) (*Inventory, error)
}

// Physical returns the physical interfaces of inv, in order.
func (inv *Inventory) Physical() []mountcmd.NetworkInterface {
	var result []mountcmd.NetworkInterface
	for _, nic := range inv.NICs {
		if nic.Type == mountcmd.InterfaceTypePhysical {
			result = append(result, nic)
		}
	}
	return result
}
