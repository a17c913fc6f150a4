package testutil

import (
	"os"
	"os/exec"
	"testing"

	"grimm.is/nftjson/internal/brand"
)

// IntegrationEnv is the variable that enables tests against a real kernel.
var IntegrationEnv = brand.ConfigEnvPrefix + "_INTEGRATION"

// RequireIntegration skips the test unless NFTJSON_INTEGRATION is set, the
// process runs as root and nft is in PATH. It returns the path of nft.
func RequireIntegration(t *testing.T) string {
	t.Helper()
	if os.Getenv(IntegrationEnv) == "" {
		t.Skipf("Skipping test: requires %s environment", IntegrationEnv)
	}
	if os.Geteuid() != 0 {
		t.Skip("Skipping test: requires root")
	}
	path, err := exec.LookPath("nft")
	if err != nil {
		t.Skip("Skipping test: nft not found in PATH")
	}
	return path
}
