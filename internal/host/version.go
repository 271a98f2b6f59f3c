package host

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Feature names a host capability that appeared in a given release.
type Feature string

// FeatureLogging is the native logger bootstrap hook.
const FeatureLogging Feature = "logging"

// features maps each capability to the first release that ships it.
var features = map[Feature]string{
	FeatureLogging: "v3.0.9",
}

// Version is a host release number.
type Version struct {
	raw string // canonical semver, "v" prefixed
}

// ParseVersion accepts dotted release numbers with or without a leading "v".
func ParseVersion(s string) (Version, error) {
	v := strings.TrimSpace(s)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return Version{}, fmt.Errorf("host: invalid version %q", s)
	}
	return Version{raw: semver.Canonical(v)}, nil
}

// MustParseVersion is ParseVersion for constants; it panics on bad input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version without its "v" prefix.
func (v Version) String() string {
	return strings.TrimPrefix(v.raw, "v")
}

// Compare returns -1, 0 or +1.
func (v Version) Compare(o Version) int {
	return semver.Compare(v.raw, o.raw)
}

// Supports reports whether this release ships feature natively.
// Unknown features are never supported.
func (v Version) Supports(f Feature) bool {
	since, ok := features[f]
	if !ok || v.raw == "" {
		return false
	}
	return semver.Compare(v.raw, since) >= 0
}
