// Package kernel reads the live ruleset over netlink without the nft
// binary.
//
// The snapshot is shallow: tables, chains and the names and key types of
// sets and maps. Rules are not decoded. It is intended for health checks
// and for cross-checking what "nft -j list ruleset" reports.
package kernel

import "errors"

// ErrUnsupported is returned on platforms without nf_tables.
var ErrUnsupported = errors.New("kernel snapshot is only supported on linux")

// Reader takes snapshots of the kernel ruleset.
type Reader struct {
	// Namespace is a named network namespace (as created by
	// "ip netns add"). Empty means the caller's namespace.
	Namespace string
}

// NewReader creates a reader for the given namespace.
func NewReader(namespace string) *Reader {
	return &Reader{Namespace: namespace}
}
