package pipeline

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photodedup/thumbs"
	"photodedup/workers"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	extractor := thumbs.New(t.TempDir(), 160)
	engine := workers.NewHashEngine(4, nil)
	return NewCoordinator(extractor, engine)
}

// waitForTerminal polls until the run reaches done or error.
func waitForTerminal(t *testing.T, c *Coordinator) Snapshot {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		snap := c.Snapshot()
		if snap.Status.Terminal() {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run did not reach a terminal state; status=%s", c.Snapshot().Status)
	return Snapshot{}
}

// writePhotoCopies saves one source image and n byte-identical copies of
// it, so every copy fingerprints identically and clusters into one group.
func writePhotoCopies(t *testing.T, dir string, n int) []string {
	t.Helper()
	img := imaging.New(120, 90, color.NRGBA{A: 255})
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 2), G: uint8(y * 2), B: uint8(x ^ y), A: 255})
		}
	}
	first := filepath.Join(dir, "photo000.jpg")
	require.NoError(t, imaging.Save(img, first))
	data, err := os.ReadFile(first)
	require.NoError(t, err)

	paths := []string{first}
	for i := 1; i < n; i++ {
		path := filepath.Join(dir, "photo"+pad3(i)+".jpg")
		require.NoError(t, os.WriteFile(path, data, 0644))
		paths = append(paths, path)
	}
	return paths
}

func pad3(i int) string {
	return string([]byte{byte('0' + i/100%10), byte('0' + i/10%10), byte('0' + i%10)})
}

func TestStartRejectsMissingDirectory(t *testing.T) {
	c := newTestCoordinator(t)
	err := c.Start(ScanRequest{Directory: "/nonexistent/photos", Threshold: 10})
	assert.ErrorIs(t, err, ErrInvalidDirectory)
	assert.Equal(t, StatusIdle, c.Snapshot().Status)
}

func TestEmptyScanCompletesImmediately(t *testing.T) {
	c := newTestCoordinator(t)
	require.NoError(t, c.Start(ScanRequest{Directory: t.TempDir(), Threshold: 10}))

	snap := waitForTerminal(t, c)
	assert.Equal(t, StatusDone, snap.Status)
	assert.Empty(t, snap.Photos)
	assert.Empty(t, snap.Groups)
	assert.Nil(t, snap.Recommendations)
}

func TestFullRunGroupsIdenticalPhotos(t *testing.T) {
	dir := t.TempDir()
	paths := writePhotoCopies(t, dir, 3)

	c := newTestCoordinator(t)
	require.NoError(t, c.Start(ScanRequest{Directory: dir, Threshold: 5, IncludeImages: true}))

	snap := waitForTerminal(t, c)
	require.Equal(t, StatusDone, snap.Status, "message: %s", snap.Message)

	assert.Len(t, snap.Photos, 3)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, 3, snap.Groups[0].Count)

	// no sidecars anywhere: the survivor invariant keeps exactly the
	// first member in path order
	require.NotNil(t, snap.Recommendations)
	require.Len(t, snap.Recommendations.Recommendations, 1)
	rec := snap.Recommendations.Recommendations[0]
	assert.Equal(t, []string{paths[0]}, rec.Keep)
	assert.Len(t, rec.Delete, 2)
	assert.Equal(t, 1, snap.Recommendations.Summary.KeepCount)
	assert.Equal(t, 2, snap.Recommendations.Summary.DeleteCount)
}

func TestStartWhileRunningConflicts(t *testing.T) {
	dir := t.TempDir()
	writePhotoCopies(t, dir, 120)

	c := newTestCoordinator(t)
	require.NoError(t, c.Start(ScanRequest{Directory: dir, Threshold: 5, IncludeImages: true}))

	// the run is still hashing 120 photos; a second start must conflict
	// and must not disturb the active run
	err := c.Start(ScanRequest{Directory: t.TempDir(), Threshold: 5})
	if assert.ErrorIs(t, err, ErrScanInProgress) {
		assert.Equal(t, dir, c.Snapshot().ScanDir)
	}

	snap := waitForTerminal(t, c)
	assert.Equal(t, StatusDone, snap.Status)
	assert.Equal(t, dir, snap.ScanDir)
}

func TestResetClearsStateAndCancelsRun(t *testing.T) {
	dir := t.TempDir()
	writePhotoCopies(t, dir, 120)

	c := newTestCoordinator(t)
	require.NoError(t, c.Start(ScanRequest{Directory: dir, Threshold: 5, IncludeImages: true}))

	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Empty(t, snap.Photos)
	assert.Empty(t, snap.Groups)
	assert.Nil(t, snap.Recommendations)
	assert.Empty(t, snap.Message)

	// the cancelled worker must never publish onto the fresh state
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StatusIdle, c.Snapshot().Status)
}

func TestResetAfterDoneAllowsNewRun(t *testing.T) {
	c := newTestCoordinator(t)
	require.NoError(t, c.Start(ScanRequest{Directory: t.TempDir(), Threshold: 10}))
	waitForTerminal(t, c)

	c.Reset()
	assert.Equal(t, StatusIdle, c.Snapshot().Status)

	require.NoError(t, c.Start(ScanRequest{Directory: t.TempDir(), Threshold: 10}))
	snap := waitForTerminal(t, c)
	assert.Equal(t, StatusDone, snap.Status)
}

func TestAnnotatedGroupsCarryEditStatus(t *testing.T) {
	snap := initialSnapshot()
	snap.Groups = nil
	assert.Empty(t, snap.AnnotatedGroups())
}
