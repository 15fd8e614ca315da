package version

import (
	"fmt"
	"strings"
)

// Increment is the size of a version change. The zero value is None and the
// constants are declared in ascending order, so aggregation is max().
type Increment int

const (
	None Increment = iota
	Patch
	Minor
	Major
)

// String returns the lowercase name used in configuration files.
func (i Increment) String() string {
	switch i {
	case None:
		return "none"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return fmt.Sprintf("increment(%d)", int(i))
	}
}

// Label returns the capitalized name used in terminal output ("Minor").
func (i Increment) Label() string {
	s := i.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseIncrement reads none, patch, minor or major (case-insensitive).
func ParseIncrement(s string) (Increment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return None, nil
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	default:
		return None, fmt.Errorf("unknown increment %q (expected none, patch, minor or major)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i Increment) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Increment) UnmarshalText(b []byte) error {
	v, err := ParseIncrement(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
