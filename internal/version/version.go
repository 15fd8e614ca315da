// Package version implements the three-component semantic version used for
// release decisions. Values are immutable: every bump returns a new Version.
// This package has no dependencies on other internal packages.
package version

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidVersion is matched by every parse failure.
var ErrInvalidVersion = errors.New("invalid version")

// ErrOverflow is returned when an increment would wrap a component past
// math.MaxUint64.
var ErrOverflow = errors.New("version component overflow")

// InvalidVersionError reports the input that failed to parse.
type InvalidVersionError struct {
	Input string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q (expected MAJOR.MINOR.PATCH)", e.Input)
}

// Is makes errors.Is(err, ErrInvalidVersion) hold for any InvalidVersionError.
func (e *InvalidVersionError) Is(target error) bool {
	return target == ErrInvalidVersion
}

// Version is a MAJOR.MINOR.PATCH triple.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// New builds a Version from its components.
func New(major, minor, patch uint64) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse reads exactly three dot-separated non-negative integers.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &InvalidVersionError{Input: s}
	}

	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, &InvalidVersionError{Input: s}
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the MAJOR.MINOR.PATCH form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or +1 ordering v against o lexicographically.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint(v.Minor, o.Minor)
	default:
		return cmpUint(v.Patch, o.Patch)
	}
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Bump returns the version reached by applying inc. None is the identity.
// A component already at math.MaxUint64 wraps to zero; use BumpChecked when
// the input is not trusted.
func (v Version) Bump(inc Increment) Version {
	switch inc {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case Patch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

// BumpChecked is Bump that fails with ErrOverflow instead of wrapping, so
// the result always orders after v for a non-None increment.
func (v Version) BumpChecked(inc Increment) (Version, error) {
	var c uint64
	switch inc {
	case Major:
		c = v.Major
	case Minor:
		c = v.Minor
	case Patch:
		c = v.Patch
	}
	if inc != None && c == math.MaxUint64 {
		return v, fmt.Errorf("%w: %s %s", ErrOverflow, inc, v)
	}
	return v.Bump(inc), nil
}

func cmpUint(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
