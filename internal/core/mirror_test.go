package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-guard/internal/types"
)

var mirrorNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPlanMirrorBuckets(t *testing.T) {
	entries := []types.MirrorEntry{
		{Package: "fresh", Version: "1.0.0", LastModified: mirrorNow.AddDate(0, 0, -2)},
		{Package: "stale", Version: "2.0.0", LastModified: mirrorNow.AddDate(0, 0, -45)},
		{Package: "outdated", Version: "0.9.0", LastModified: mirrorNow.AddDate(0, 0, -1)},
	}
	needed := []types.MirrorNeed{
		{Name: "fresh", Version: "1.0.0"},
		{Name: "stale", Version: "2.0.0"},
		{Name: "outdated", Version: "1.0.0"},
		{Name: "absent", Version: "3.0.0"},
	}

	plan := PlanMirror(mirrorNow, needed, entries)

	require.Len(t, plan.ToAdd, 1)
	assert.Equal(t, "absent", plan.ToAdd[0].Name)

	require.Len(t, plan.ToUpdate, 2)
	assert.Equal(t, "outdated", plan.ToUpdate[0].Name)
	assert.Equal(t, "stale", plan.ToUpdate[1].Name)
	assert.Equal(t, 45, plan.ToUpdate[1].AgeDays)

	require.Len(t, plan.Available, 1)
	assert.Equal(t, "fresh", plan.Available[0].Name)

	assert.Equal(t, map[string]int{"to_add": 1, "to_update": 2, "available": 1}, plan.Summary)

	require.Len(t, plan.Packages, 4)
	assert.Equal(t, "absent", plan.Packages[0].Name)
	assert.False(t, plan.Packages[0].Available)
	assert.Nil(t, plan.Packages[0].LastUpdated)
	assert.Equal(t, "fresh", plan.Packages[1].Name)
	assert.True(t, plan.Packages[1].Available)
}

func TestLookupMirror(t *testing.T) {
	entries := []types.MirrorEntry{
		{Package: "numpy", Version: "1.24.0", LastModified: mirrorNow.AddDate(0, 0, -90)},
		{Package: "numpy", Version: "1.26.0", LastModified: mirrorNow.AddDate(0, 0, -3)},
	}

	hit := LookupMirror(entries, "numpy", "1.26.0")
	assert.True(t, hit.Available)
	require.NotNil(t, hit.LastUpdated)
	assert.Equal(t, mirrorNow.AddDate(0, 0, -3), *hit.LastUpdated)

	// The version is gone from the mirror but the package is known, so
	// the newest artifact time still comes back.
	miss := LookupMirror(entries, "numpy", "1.25.0")
	assert.False(t, miss.Available)
	require.NotNil(t, miss.LastUpdated)
	assert.Equal(t, mirrorNow.AddDate(0, 0, -3), *miss.LastUpdated)

	unknown := LookupMirror(entries, "scipy", "1.0.0")
	assert.False(t, unknown.Available)
	assert.Nil(t, unknown.LastUpdated)
}

func TestPlanMirrorKeepsNewestEntryPerPackage(t *testing.T) {
	entries := []types.MirrorEntry{
		{Package: "dup", Version: "1.0.0", LastModified: mirrorNow.AddDate(0, 0, -60)},
		{Package: "dup", Version: "1.1.0", LastModified: mirrorNow.AddDate(0, 0, -1)},
	}
	needed := []types.MirrorNeed{{Name: "dup", Version: "1.1.0"}}

	plan := PlanMirror(mirrorNow, needed, entries)
	assert.Len(t, plan.Available, 1)
	assert.Empty(t, plan.ToUpdate)
}

func TestPlanMirrorStalenessBoundary(t *testing.T) {
	entries := []types.MirrorEntry{
		{Package: "edge", Version: "1.0.0", LastModified: mirrorNow.AddDate(0, 0, -30)},
	}
	needed := []types.MirrorNeed{{Name: "edge", Version: "1.0.0"}}

	// Exactly 30 days old still counts as fresh.
	plan := PlanMirror(mirrorNow, needed, entries)
	assert.Len(t, plan.Available, 1)
}
