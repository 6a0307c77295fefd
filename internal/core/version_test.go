package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-guard/internal/types"
)

// ---------------------------------------------------------------------------
// versionCache
// ---------------------------------------------------------------------------

func TestVersionCachePepVersionIsMemoized(t *testing.T) {
	cache := newVersionCache()

	v1, err := cache.pepVersion("1.2.3")
	require.NoError(t, err)

	v2, err := cache.pepVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestVersionCachePepVersionInvalid(t *testing.T) {
	cache := newVersionCache()
	_, err := cache.pepVersion("not-a-pep440!!!")
	require.Error(t, err)
}

func TestVersionCacheDebVersion(t *testing.T) {
	cache := newVersionCache()

	v1, err := cache.debVersion("1:2.34.1-1ubuntu1")
	require.NoError(t, err)

	v2, err := cache.debVersion("1:2.34.1-1ubuntu1")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestVersionCacheComparePyPI(t *testing.T) {
	cache := newVersionCache()

	cmp, err := cache.compare(types.EcosystemPyPI, "1.2.3", "1.2.10")
	require.NoError(t, err)
	assert.Negative(t, cmp)

	cmp, err = cache.compare(types.EcosystemPyPI, "2.0.0", "2.0.0")
	require.NoError(t, err)
	assert.Zero(t, cmp)
}

func TestVersionCacheCompareDebianEpoch(t *testing.T) {
	cache := newVersionCache()

	// An epoch outranks any upstream version.
	cmp, err := cache.compare(types.EcosystemDebian, "1:1.0", "9.9")
	require.NoError(t, err)
	assert.Positive(t, cmp)
}

func TestVersionCacheLatestSkipsUnparseable(t *testing.T) {
	cache := newVersionCache()

	latest, ok := cache.latest(types.EcosystemPyPI, []string{"1.0.0", "garbage!!!", "1.4.0", "1.2.0"})
	require.True(t, ok)
	assert.Equal(t, "1.4.0", latest)
}

func TestVersionCacheLowestSatisfying(t *testing.T) {
	cache := newVersionCache()

	target, ok := cache.lowestSatisfying(types.EcosystemPyPI,
		[]string{">=1.2", "<2.0"},
		[]string{"1.0.0", "1.2.0", "1.5.0", "2.1.0"})
	require.True(t, ok)
	assert.Equal(t, "1.2.0", target)
}

func TestVersionCacheLowestSatisfyingNone(t *testing.T) {
	cache := newVersionCache()

	_, ok := cache.lowestSatisfying(types.EcosystemPyPI,
		[]string{">=3.0"},
		[]string{"1.0.0", "2.0.0"})
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// delta classification
// ---------------------------------------------------------------------------

func TestClassifyDelta(t *testing.T) {
	cases := []struct {
		current string
		target  string
		want    types.DriftSeverity
	}{
		{"1.2.3", "1.2.4", types.DriftPatch},
		{"1.2.3", "1.3.0", types.DriftMinor},
		{"1.2.3", "2.0.0", types.DriftMajor},
		{"1.2", "1.2.1", types.DriftPatch},
		{"garbage", "1.0.0", types.DriftUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyDelta(tc.current, tc.target),
			"%s -> %s", tc.current, tc.target)
	}
}

func TestReleaseComponentsStopsAtNonNumeric(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, releaseComponents("1.2.3"))
	assert.Equal(t, []int{1, 2}, releaseComponents("1.2rc1"))
	assert.Equal(t, []int{2, 34, 1}, releaseComponents("1:2.34.1-1ubuntu1"))
	assert.Empty(t, releaseComponents("garbage"))
}

func TestMajorJump(t *testing.T) {
	assert.Equal(t, 0, MajorJump("1.2.3", "1.9.9"))
	assert.Equal(t, 1, MajorJump("1.2.3", "2.0.0"))
	assert.Equal(t, 3, MajorJump("2.0.0", "5.1.0"))
	assert.Equal(t, 0, MajorJump("garbage", "5.1.0"))
}

func TestIsPrerelease(t *testing.T) {
	assert.True(t, IsPrerelease(types.EcosystemPyPI, "2.0.0rc1"))
	assert.True(t, IsPrerelease(types.EcosystemPyPI, "2.0.0b2"))
	assert.True(t, IsPrerelease(types.EcosystemPyPI, "1.0.0.dev3"))
	assert.False(t, IsPrerelease(types.EcosystemPyPI, "2.0.0"))
	assert.False(t, IsPrerelease(types.EcosystemPyPI, "2.0.0.post1"))
	assert.True(t, IsPrerelease(types.EcosystemDebian, "1.0~rc1-1"))
	assert.False(t, IsPrerelease(types.EcosystemDebian, "1.0-1"))
}
