//go:build !linux

package kernel

import (
	"context"

	"grimm.is/nftjson/internal/schema"
)

// Snapshot returns ErrUnsupported.
func (r *Reader) Snapshot(context.Context) (schema.Document, error) {
	return schema.Document{}, ErrUnsupported
}

// ListRuleset returns ErrUnsupported.
func (r *Reader) ListRuleset(ctx context.Context) (schema.Document, error) {
	return r.Snapshot(ctx)
}
