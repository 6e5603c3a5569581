package workers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photodedup/thumbs"
)

func TestExtractBatchRecordsFailuresAsEmpty(t *testing.T) {
	dir := t.TempDir()
	good := writeTestJPEG(t, dir, "good.jpg")
	bad := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))

	ex := thumbs.New(t.TempDir(), 320)
	results, err := ExtractBatch(context.Background(), ex, []string{good, bad}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[good])
	assert.Empty(t, results[bad], "per-photo failure records an empty thumbnail, never aborts")
}

func TestExtractBatchProgress(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTestJPEG(t, dir, "a.jpg"),
		writeTestJPEG(t, dir, "b.jpg"),
	}

	var lastProcessed, lastTotal int
	var lastName string
	ex := thumbs.New(t.TempDir(), 320)
	_, err := ExtractBatch(context.Background(), ex, paths, func(processed, total int, filename string) {
		lastProcessed, lastTotal, lastName = processed, total, filename
	})
	require.NoError(t, err)
	assert.Equal(t, 2, lastProcessed)
	assert.Equal(t, 2, lastTotal)
	assert.Equal(t, "b.jpg", lastName)
}

func TestExtractBatchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := thumbs.New(t.TempDir(), 320)
	_, err := ExtractBatch(ctx, ex, []string{"/photos/a.nef"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
