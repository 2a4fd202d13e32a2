package mountcmd

// InterfaceType classifies a network interface reported by the node inventory.
type InterfaceType string

const (
	InterfaceTypePhysical InterfaceType = "physical"
	InterfaceTypeVirtual  InterfaceType = "virtual"
	InterfaceTypeLoopback InterfaceType = "loopback"
)

// NetworkInterface is a single NIC as reported by the node inventory.
type NetworkInterface struct {
	// Name is the kernel interface name (e.g., "eth0")
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Type is the interface classification
	Type InterfaceType `json:"iftype" yaml:"iftype" mapstructure:"iftype"`

	// IPv4Address is the primary address in CIDR form ("10.0.0.5/24").
	// Empty means the interface has no IPv4 address.
	IPv4Address string `json:"ipv4_address,omitempty" yaml:"ipv4_address,omitempty" mapstructure:"ipv4_address"`
}

// Credential is a CephX principal and its secret key.
type Credential struct {
	// Entity is the principal in the form "client.<name>"
	Entity string `json:"entity" yaml:"entity"`

	// Key is the base64 encoded CephX secret
	Key string `json:"key" yaml:"key"`
}
