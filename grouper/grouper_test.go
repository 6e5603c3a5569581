package grouper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photodedup/phash"
)

func fp(h uint64) *string {
	s := phash.Encode(h)
	return &s
}

// Two near-identical pairs far apart from each other: {a, b} and {c, d}.
func pairFixture() map[string]*string {
	return map[string]*string{
		"/photos/a.nef": fp(0x0000000000000000),
		"/photos/b.nef": fp(0x0000000000000001),
		"/photos/c.nef": fp(0xffffffffffffffff),
		"/photos/d.nef": fp(0xfffffffffffffffe),
	}
}

func groupPaths(t *testing.T, fingerprints map[string]*string, threshold int) [][]string {
	t.Helper()
	groups, err := GroupSimilar(fingerprints, map[string]int64{}, threshold)
	require.NoError(t, err)
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		paths := make([]string, 0, len(g.Photos))
		for _, p := range g.Photos {
			paths = append(paths, p.Path)
		}
		out = append(out, paths)
	}
	return out
}

func TestGroupSimilarPairs(t *testing.T) {
	got := groupPaths(t, pairFixture(), 1)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"/photos/a.nef", "/photos/b.nef"}, got[0])
	assert.Equal(t, []string{"/photos/c.nef", "/photos/d.nef"}, got[1])
}

func TestGroupSimilarThresholdBoundary(t *testing.T) {
	// distance(a, b) == 2 exactly
	fingerprints := map[string]*string{
		"/p/a.nef": fp(0x0),
		"/p/b.nef": fp(0x3),
	}

	merged := groupPaths(t, fingerprints, 2)
	require.Len(t, merged, 1, "distance equal to threshold merges")

	separate := groupPaths(t, fingerprints, 1)
	assert.Empty(t, separate, "distance above threshold does not merge")
}

func TestGroupSimilarDropsNilAndSingletons(t *testing.T) {
	fingerprints := map[string]*string{
		"/p/a.nef":    fp(0x0),
		"/p/b.nef":    fp(0x1),
		"/p/lone.nef": fp(0xffffffff00000000),
		"/p/bad.nef":  nil,
	}
	groups, err := GroupSimilar(fingerprints, map[string]int64{}, 1)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
	for _, g := range groups {
		assert.GreaterOrEqual(t, len(g.Photos), 2, "no singleton groups")
	}
}

func TestGroupSimilarDeterministicOrdering(t *testing.T) {
	fingerprints := map[string]*string{
		// three-member group
		"/p/x1.nef": fp(0x10),
		"/p/x2.nef": fp(0x11),
		"/p/x3.nef": fp(0x12),
		// two-member group
		"/p/y1.nef": fp(0xff00000000000000),
		"/p/y2.nef": fp(0xff00000000000001),
	}

	first := groupPaths(t, fingerprints, 2)

	// rebuild the map to vary insertion order; output must not change
	shuffled := map[string]*string{}
	for _, k := range []string{"/p/y2.nef", "/p/x3.nef", "/p/y1.nef", "/p/x1.nef", "/p/x2.nef"} {
		shuffled[k] = fingerprints[k]
	}
	second := groupPaths(t, shuffled, 2)

	require.Equal(t, first, second)

	// larger group first, ids assigned in order, members path-sorted
	groups, err := GroupSimilar(fingerprints, map[string]int64{}, 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].GroupID)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 1, groups[1].GroupID)
	assert.Equal(t, 2, groups[1].Count)
}

func TestGroupSimilarTotalSize(t *testing.T) {
	fingerprints := map[string]*string{
		"/p/a.nef": fp(0x0),
		"/p/b.nef": fp(0x1),
	}
	sizes := map[string]int64{"/p/a.nef": 100, "/p/b.nef": 250}
	groups, err := GroupSimilar(fingerprints, sizes, 1)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(350), groups[0].TotalSize)
}

func TestGroupSimilarMalformedFingerprintFailsClosed(t *testing.T) {
	bad := "nothex"
	fingerprints := map[string]*string{
		"/p/a.nef": fp(0x0),
		"/p/b.nef": &bad,
	}
	_, err := GroupSimilar(fingerprints, map[string]int64{}, 1)
	assert.Error(t, err)
}

func TestGroupSimilarEmptyInput(t *testing.T) {
	groups, err := GroupSimilar(map[string]*string{}, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
