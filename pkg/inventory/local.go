package inventory

import (
	"context"
	"fmt"
	"net"
	"os"
	"path"

	"github.com/spf13/afero"

	"github.com/aquarist-labs/glass/pkg/mountcmd"
)

// LocalProvider enumerates the host's network interfaces.
//
// An interface is physical when the kernel exposes a backing device for it
// under /sys/class/net/<name>/device. Loopback interfaces are reported as
// loopback; everything else (bridges, veth, bonds, tunnels) as virtual.
type LocalProvider struct {
	fs        afero.Fs
	sysfsRoot string

	interfaces func() ([]net.Interface, error)
	addrs      func(iface net.Interface) ([]net.Addr, error)
	hostname   func() (string, error)
}

// LocalProviderConfig is decoded from the inventory.local config section.
type LocalProviderConfig struct {
	// SysfsRoot is where sysfs is mounted. Default: /sys
	SysfsRoot string `mapstructure:"sysfs_root"`

	// IncludeDown also reports interfaces that are administratively down
	IncludeDown bool `mapstructure:"include_down"`
}

func NewLocalProvider(cfg LocalProviderConfig) *LocalProvider {
	return newLocalProvider(cfg, afero.NewReadOnlyFs(afero.NewOsFs()), net.Interfaces)
}

func newLocalProvider(cfg LocalProviderConfig, fs afero.Fs, interfaces func() ([]net.Interface, error)) *LocalProvider {
	root := cfg.SysfsRoot
	if root == "" {
		root = "/sys"
	}

	p := &LocalProvider{
		fs:         fs,
		sysfsRoot:  root,
		interfaces: interfaces,
		addrs:      func(iface net.Interface) ([]net.Addr, error) { return iface.Addrs() },
		hostname:   os.Hostname,
	}

	if !cfg.IncludeDown {
		all := p.interfaces
		p.interfaces = func() ([]net.Interface, error) {
			list, err := all()
			if err != nil {
				return nil, err
			}
			up := make([]net.Interface, 0, len(list))
			for _, iface := range list {
				if iface.Flags&net.FlagUp != 0 {
					up = append(up, iface)
				}
			}
			return up, nil
		}
	}

	return p
}

func (p *LocalProvider) Inventory(ctx context.Context) (*Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hostname, err := p.hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}

	ifaces, err := p.interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	inv := &Inventory{Hostname: hostname, NICs: make([]mountcmd.NetworkInterface, 0, len(ifaces))}
	for _, iface := range ifaces {
		nicType, err := p.classify(iface)
		if err != nil {
			return nil, err
		}

		addrs, err := p.addrs(iface)
		if err != nil {
			return nil, fmt.Errorf("failed to list addresses of %s: %w", iface.Name, err)
		}

		inv.NICs = append(inv.NICs, mountcmd.NetworkInterface{
			Name:        iface.Name,
			Type:        nicType,
			IPv4Address: firstIPv4(addrs),
		})
	}

	return inv, nil
}

func (p *LocalProvider) classify(iface net.Interface) (mountcmd.InterfaceType, error) {
	if iface.Flags&net.FlagLoopback != 0 {
		return mountcmd.InterfaceTypeLoopback, nil
	}

	hasDevice, err := afero.Exists(p.fs, path.Join(p.sysfsRoot, "class", "net", iface.Name, "device"))
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", iface.Name, err)
	}
	if hasDevice {
		return mountcmd.InterfaceTypePhysical, nil
	}
	return mountcmd.InterfaceTypeVirtual, nil
}

// firstIPv4 returns the first IPv4 address in CIDR form, or "".
func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.To4() == nil {
			continue
		}
		ones, _ := ipNet.Mask.Size()
		return fmt.Sprintf("%s/%d", ipNet.IP.To4(), ones)
	}
	return ""
}
