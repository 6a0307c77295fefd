package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-guard/internal/types"
)

func TestInventoryFileAdapterLoadPackages(t *testing.T) {
	path := writeTempFile(t, "inventory.yaml", `packages:
  - name: Django
    current_version: "4.1.0"
    available_versions: ["4.1.0", "4.2.0"]
  - name: openssl
    ecosystem: debian
    current_version: "3.0.2-0ubuntu1"
    available_versions: ["3.0.2-0ubuntu1", "3.0.2-0ubuntu3"]
`)

	refs, err := NewInventoryFileAdapter().LoadPackages(path)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// PyPI names are normalized, the ecosystem defaults to pypi.
	assert.Equal(t, "django", refs[0].Name)
	assert.Equal(t, types.EcosystemPyPI, refs[0].Ecosystem)
	assert.Equal(t, types.EcosystemDebian, refs[1].Ecosystem)
	assert.Equal(t, "openssl", refs[1].Name)
}

func TestInventoryFileAdapterLoadMetadata(t *testing.T) {
	path := writeTempFile(t, "metadata.yaml", `metadata:
  requests:
    security_flagged: true
    advisories: ["CVE-2026-0001"]
    download_count: 5000000
    version_age_days: 120
`)

	metadata, err := NewInventoryFileAdapter().LoadMetadata(path)
	require.NoError(t, err)
	require.Contains(t, metadata, "requests")
	assert.True(t, metadata["requests"].SecurityFlagged)
	assert.Equal(t, int64(5_000_000), metadata["requests"].DownloadCount)
}

func TestInventoryFileAdapterLoadDependencySpec(t *testing.T) {
	path := writeTempFile(t, "deps.yaml", `packages:
  requests:
    constraint: ">=2.0"
    requires:
      - name: urllib3
        constraint: ">=1.26"
    available: ["2.28.0", "2.31.0"]
  urllib3:
    available: ["1.26.18", "2.0.0"]
`)

	spec, err := NewInventoryFileAdapter().LoadDependencySpec(path)
	require.NoError(t, err)
	require.Contains(t, spec.Packages, "requests")
	assert.Equal(t, ">=2.0", spec.Packages["requests"].Constraint)
	require.Len(t, spec.Packages["requests"].Requires, 1)
	assert.Equal(t, "urllib3", spec.Packages["requests"].Requires[0].Name)
}

func TestInventoryFileAdapterLoadProposedUpgrades(t *testing.T) {
	path := writeTempFile(t, "upgrades.yaml", `upgrades:
  - package: requests
    current_version: "2.28.0"
    target_version: "2.28.2"
    signed: true
  - package: openssl
    ecosystem: debian
    current_version: "3.0.2-0ubuntu1"
    target_version: "3.0.2-0ubuntu3"
`)

	upgrades, err := NewInventoryFileAdapter().LoadProposedUpgrades(path)
	require.NoError(t, err)
	require.Len(t, upgrades, 2)
	assert.Equal(t, types.EcosystemPyPI, upgrades[0].Ecosystem)
	assert.True(t, upgrades[0].Signed)
	assert.Equal(t, types.EcosystemDebian, upgrades[1].Ecosystem)
}

func TestInventoryFileAdapterMissingFiles(t *testing.T) {
	adapter := NewInventoryFileAdapter()
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := adapter.LoadPackages(missing)
	require.Error(t, err)
	_, err = adapter.LoadMetadata(missing)
	require.Error(t, err)
	_, err = adapter.LoadDependencySpec(missing)
	require.Error(t, err)
	_, err = adapter.LoadProposedUpgrades(missing)
	require.Error(t, err)
}
