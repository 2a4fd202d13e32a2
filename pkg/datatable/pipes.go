package datatable

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Pipe transforms a raw cell value into display text.
type Pipe interface {
	Transform(value any) string
}

// BytesToSize renders byte counts with IEC units ("10 GiB").
type BytesToSize struct{}

func (BytesToSize) Transform(value any) string {
	n, ok := toUint64(value)
	if !ok {
		return fmt.Sprint(value)
	}
	return humanize.IBytes(n)
}

// RedundancyLevel names the flavor implied by a replica count.
type RedundancyLevel struct{}

func (RedundancyLevel) Transform(value any) string {
	n, ok := toUint64(value)
	if !ok {
		return fmt.Sprint(value)
	}
	switch n {
	case 1:
		return "Performance"
	case 2:
		return "Capacity"
	case 3:
		return "Availability"
	default:
		return fmt.Sprintf("%d replicas", n)
	}
}

func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int32:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
