// Package thumbs produces small JPEG previews for photos and caches them
// on disk. Cache entries are keyed by a content-identity hash of the
// source path and its modification time, so a changed file computes a new
// key and the stale entry simply goes cold.
package thumbs

import (
	"crypto/md5"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"photodedup/utils"
)

const jpegQuality = 85

type Extractor struct {
	CacheDir string
	MaxSize  int // longest side in pixels
}

func New(cacheDir string, maxSize int) *Extractor {
	return &Extractor{CacheDir: cacheDir, MaxSize: maxSize}
}

// cacheKey derives the content-identity key from the source path and its
// last-modified time.
func cacheKey(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("thumbs: failed to stat %s: %w", path, err)
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", path, stat.ModTime().Unix())))
	return fmt.Sprintf("%x", sum), nil
}

// CachedPath returns the on-disk cache location for a source file,
// whether or not an entry exists yet.
func (e *Extractor) CachedPath(path string) (string, error) {
	key, err := cacheKey(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(e.CacheDir, key+".jpg"), nil
}

// Extract returns the path of a cached thumbnail for the given photo,
// generating it on a cache miss. RAW files are served from their embedded
// JPEG preview; raster files are decoded directly.
func (e *Extractor) Extract(path string) (string, error) {
	cached, err := e.CachedPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}

	var img image.Image
	if utils.IsRawImage(path) {
		img, err = extractEmbeddedPreview(path)
	} else {
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
	}
	if err != nil {
		return "", fmt.Errorf("thumbs: failed to extract preview from %s: %w", path, err)
	}

	thumb := imaging.Fit(img, e.MaxSize, e.MaxSize, imaging.Lanczos)

	if err := os.MkdirAll(e.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("thumbs: failed to create cache directory %s: %w", e.CacheDir, err)
	}
	if err := imaging.Save(thumb, cached, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("thumbs: failed to save thumbnail to %s: %w", cached, err)
	}
	return cached, nil
}
