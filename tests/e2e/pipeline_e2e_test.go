package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"upgrade-guard/tests/testutil"
)

func TestDriftCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/upgrade-guard", "drift",
		"--inventory", "fixtures/inventory-sample.yaml",
		"--contract", "fixtures/contract-sample.yaml",
		"--output-dir", outDir,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "drift.report.yaml"))
}

func TestGuardCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/upgrade-guard", "guard",
		"--contract", "fixtures/contract-sample.yaml",
		"--upgrades", "fixtures/upgrades-sample.yaml",
		"--output-dir", outDir,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "guard.verdict.yaml"))
}
