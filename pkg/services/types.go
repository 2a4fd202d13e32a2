package services

import (
	"fmt"
)

// Type is the kind of file-system service.
//
// Code that dispatches on Type must handle every value in AllTypes. Parse and
// UnmarshalText reject anything else, so a Type held by a Desc is always one
// of them.
type Type string

const (
	TypeCephFS Type = "cephfs"
	TypeNFS    Type = "nfs"
)

// AllTypes lists every supported service type.
var AllTypes = []Type{TypeCephFS, TypeNFS}

// ParseType converts s into a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeCephFS:
		return TypeCephFS, nil
	case TypeNFS:
		return TypeNFS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Label returns the human readable name of the type.
func (t Type) Label() string {
	switch t {
	case TypeCephFS:
		return "CephFS"
	case TypeNFS:
		return "NFS"
	default:
		return string(t)
	}
}

func (t Type) String() string {
	return string(t)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Desc describes a configured service.
type Desc struct {
	// Name is the unique service name
	Name string `json:"name" yaml:"name"`

	// Type is the service kind
	Type Type `json:"type" yaml:"type"`

	// Reservation is the allocated (usable) size in bytes
	Reservation uint64 `json:"reservation" yaml:"reservation"`

	// RawSize is the capacity consumed on disk including replication
	RawSize uint64 `json:"raw_size" yaml:"raw_size"`

	// Replicas is the number of data copies kept
	Replicas int `json:"replicas" yaml:"replicas"`
}

// Value returns the field addressed by prop, using the JSON field names.
// It returns nil for unknown properties.
func (d Desc) Value(prop string) any {
	switch prop {
	case "name":
		return d.Name
	case "type":
		return string(d.Type)
	case "reservation":
		return d.Reservation
	case "raw_size":
		return d.RawSize
	case "replicas":
		return d.Replicas
	default:
		return nil
	}
}
