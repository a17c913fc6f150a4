package config

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentSchemaVersion is the config schema this build writes.
const CurrentSchemaVersion = "1.0"

// SchemaVersion is a major.minor config schema version.
type SchemaVersion struct {
	Major int
	Minor int
}

// ParseVersion parses "X.Y". The empty string is the current version.
func ParseVersion(s string) (SchemaVersion, error) {
	if s == "" {
		s = CurrentSchemaVersion
	}
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return SchemaVersion{}, fmt.Errorf("invalid version format: %s (expected X.Y)", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj < 0 {
		return SchemaVersion{}, fmt.Errorf("invalid major version: %s", major)
	}
	mnr, err := strconv.Atoi(minor)
	if err != nil || mnr < 0 {
		return SchemaVersion{}, fmt.Errorf("invalid minor version: %s", minor)
	}
	return SchemaVersion{Major: maj, Minor: mnr}, nil
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other.
func (v SchemaVersion) Compare(other SchemaVersion) int {
	switch {
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	}
	return 0
}

// Supported reports whether this build can read v. Minor versions are
// forward compatible; a newer major version is not.
func (v SchemaVersion) Supported() bool {
	cur, _ := ParseVersion(CurrentSchemaVersion)
	return v.Major == cur.Major
}
