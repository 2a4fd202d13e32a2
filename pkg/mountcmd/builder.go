package mountcmd

import "strings"

const (
	// PlaceholderIPAddr stands in for the monitor address when no physical
	// interface with an IPv4 address is known.
	PlaceholderIPAddr = "<IPADDR>"

	// PlaceholderDirName stands in for the local mount point.
	PlaceholderDirName = "<DIRNAME>"

	entityPrefix = "client."
)

// Build returns the mount command for the given credential, using the first
// physical interface in interfaces as the server address.
//
// Example:
//
//	Build(Credential{Entity: "client.fs1", Key: "AQABC=="},
//	    []NetworkInterface{{Type: InterfaceTypePhysical, IPv4Address: "10.0.0.5/24"}})
//	// mount -t ceph -o secret=AQABC==,name=fs1 10.0.0.5:/ <DIRNAME>
func Build(cred Credential, interfaces []NetworkInterface) string {
	return strings.Join(Args(cred, interfaces), " ")
}

// Args returns the command as an argument vector, before joining.
func Args(cred Credential, interfaces []NetworkInterface) []string {
	ipAddr := HostAddress(interfaces)
	name := strings.TrimPrefix(cred.Entity, entityPrefix)

	return []string{
		"mount",
		"-t",
		"ceph",
		"-o",
		"secret=" + cred.Key + ",name=" + name,
		ipAddr + ":/",
		PlaceholderDirName,
	}
}

// HostAddress picks the address of the first physical interface, in input
// order, with its CIDR prefix length removed. It returns PlaceholderIPAddr
// when there is no physical interface or the selected one has no address.
func HostAddress(interfaces []NetworkInterface) string {
	for _, nic := range interfaces {
		if nic.Type != InterfaceTypePhysical {
			continue
		}
		return stripPrefixLength(nic.IPv4Address)
	}
	return PlaceholderIPAddr
}

// stripPrefixLength cuts the address at the first '/'. Addresses without a
// slash, and addresses where the slash is the first character, are returned
// unchanged.
func stripPrefixLength(addr string) string {
	if addr == "" {
		return PlaceholderIPAddr
	}
	if i := strings.IndexByte(addr, '/'); i > 0 {
		return addr[:i]
	}
	return addr
}
