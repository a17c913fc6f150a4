//go:build linux

package testutil

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"

	"grimm.is/nftjson/internal/brand"
)

var nsCounter atomic.Uint32

// WithNetNS creates a throwaway named network namespace and returns its
// name. The namespace is deleted when the test ends. Commands reach it
// through "ip netns exec <name>"; netlink clients open it by name.
func WithNetNS(t *testing.T) string {
	t.Helper()

	name := fmt.Sprintf("%s-test-%d-%d", brand.Name, unix.Getpid(), nsCounter.Add(1))

	// NewNamed switches the calling thread into the new namespace.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	orig, err := netns.Get()
	if err != nil {
		t.Fatalf("failed to get original netns: %v", err)
	}
	defer orig.Close()

	ns, err := netns.NewNamed(name)
	if err != nil {
		t.Fatalf("failed to create netns %s: %v", name, err)
	}
	ns.Close()

	if err := netns.Set(orig); err != nil {
		t.Fatalf("failed to switch back to original netns: %v", err)
	}

	t.Cleanup(func() {
		if err := netns.DeleteNamed(name); err != nil {
			t.Logf("failed to delete netns %s: %v", name, err)
		}
	})
	return name
}
