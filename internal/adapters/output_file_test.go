package adapters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-guard/internal/types"
)

func TestOutputFileAdapterWritesReports(t *testing.T) {
	dir := t.TempDir()
	output := NewOutputFileAdapter(dir)
	generated := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, output.WriteDriftReport(types.DriftReport{
		GeneratedAt: generated,
		Severity:    types.DriftPatch,
	}))
	require.NoError(t, output.WriteGuardVerdict(types.GuardVerdict{
		GeneratedAt: generated,
		Status:      types.VerdictSafe,
	}))
	require.NoError(t, output.WriteMirrorPlan(types.MirrorPlan{
		GeneratedAt: generated,
		Summary:     map[string]int{"to_add": 0},
	}))

	for _, filename := range []string{"drift.report.yaml", "guard.verdict.yaml", "mirror.plan.yaml"} {
		content, err := os.ReadFile(filepath.Join(dir, filename))
		require.NoError(t, err, filename)
		assert.Contains(t, string(content), "generated_at", filename)
	}
}

func TestOutputFileAdapterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	output := NewOutputFileAdapter(dir)

	require.NoError(t, output.WriteConflictReport(types.ConflictReport{
		GeneratedAt: time.Now().UTC(),
	}))

	_, err := os.Stat(filepath.Join(dir, "conflicts.report.yaml"))
	assert.NoError(t, err)
}

func TestOutputFileAdapterEmptyDirFails(t *testing.T) {
	output := NewOutputFileAdapter("")
	require.Error(t, output.WriteDriftReport(types.DriftReport{}))
	require.Error(t, output.WriteExecutionReport(types.ExecutionReport{}))
}
