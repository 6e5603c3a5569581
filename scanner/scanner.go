// Package scanner walks a directory tree and builds photo records for
// every matching file, optionally enriched with EXIF capture metadata.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"photodedup/models"
	"photodedup/utils"
)

// progress cadence: every 50 items and on the final item
const progressInterval = 50

// ProgressFunc receives (processed count, total count, current filename).
type ProgressFunc func(processed, total int, filename string)

// Options controls which files a scan picks up.
type Options struct {
	// IncludeImages adds common raster formats (JPG etc.) to the RAW
	// allow-list.
	IncludeImages bool

	// ReadExif enriches records with capture date and camera model.
	ReadExif bool
}

// Scan recursively enumerates regular files under dir, skipping hidden
// entries, and returns a record per matching photo. Emission follows
// filesystem traversal order; callers must not rely on it being sorted.
// Individual file errors are non-fatal; only a missing or non-directory
// root fails the scan.
func Scan(ctx context.Context, dir string, opts Options, progress ProgressFunc) ([]models.Photo, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scanner: directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanner: not a directory: %s", dir)
	}

	// collect matching paths first so progress can report a total
	var matched []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtree, skip it
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if utils.IsRawImage(name) || (opts.IncludeImages && utils.IsRasterImage(name)) {
			matched = append(matched, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanner: walk failed for %s: %w", dir, walkErr)
	}

	total := len(matched)
	photos := make([]models.Photo, 0, total)

	for i, path := range matched {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stat, err := os.Stat(path)
		if err != nil {
			// file vanished mid-scan, skip it
			continue
		}

		photo := models.Photo{
			Path:     path,
			Filename: filepath.Base(path),
			Size:     stat.Size(),
		}

		if opts.ReadExif {
			date, model := readExifQuick(path)
			photo.DateTaken = date
			photo.CameraModel = model
		}

		photos = append(photos, photo)

		if progress != nil && (i%progressInterval == 0 || i == total-1) {
			progress(i+1, total, photo.Filename)
		}
	}

	return photos, nil
}
