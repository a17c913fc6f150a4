package health

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"grimm.is/nftjson/internal/kernel"
	"grimm.is/nftjson/internal/schema"
)

// Lister returns the current ruleset.
type Lister interface {
	ListRuleset(ctx context.Context) (schema.Document, error)
}

// ProgramCheck reports whether program can be found.
func ProgramCheck(program string) CheckFunc {
	return func(context.Context) Check {
		path, err := exec.LookPath(program)
		if err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Status: StatusHealthy, Message: path}
	}
}

// RulesetCheck lists the ruleset through l and reports the object count
// and the nft version from metainfo.
func RulesetCheck(l Lister) CheckFunc {
	return func(ctx context.Context) Check {
		doc, err := l.ListRuleset(ctx)
		if err != nil {
			return Check{Status: StatusUnhealthy, Message: fmt.Sprintf("failed to list ruleset: %v", err)}
		}
		msg := fmt.Sprintf("%d objects", len(doc.Objects))
		for _, obj := range doc.Objects {
			if m, ok := obj.(schema.Metainfo); ok && m.Version != nil {
				msg = fmt.Sprintf("nft %s, %s", *m.Version, msg)
				break
			}
		}
		return Check{Status: StatusHealthy, Message: msg}
	}
}

// KernelCheck reads the ruleset over netlink. A platform without
// nf_tables is degraded rather than unhealthy, since nft may still work
// through other means.
func KernelCheck(r *kernel.Reader) CheckFunc {
	return func(ctx context.Context) Check {
		doc, err := r.Snapshot(ctx)
		switch {
		case errors.Is(err, kernel.ErrUnsupported):
			return Check{Status: StatusDegraded, Message: err.Error()}
		case err != nil:
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Status: StatusHealthy, Message: fmt.Sprintf("nftables operational (%d objects)", len(doc.Objects))}
	}
}
