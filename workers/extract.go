// Package workers drives the batch stages of a pipeline run: thumbnail
// extraction and concurrent fingerprint computation.
package workers

import (
	"context"
	"log"
	"path/filepath"

	"photodedup/thumbs"
)

// thumbnail extraction reports progress every 20 items and on the final one
const extractProgressInterval = 20

// ExtractProgressFunc receives (processed count, total count, filename).
type ExtractProgressFunc func(processed, total int, filename string)

// ExtractBatch produces a thumbnail for every path. The result maps each
// input path to its thumbnail location, with "" when extraction failed;
// per-photo failures never abort the batch.
func ExtractBatch(ctx context.Context, ex *thumbs.Extractor, paths []string, progress ExtractProgressFunc) (map[string]string, error) {
	total := len(paths)
	results := make(map[string]string, total)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		thumb, err := ex.Extract(path)
		if err != nil {
			log.Printf("workers: thumbnail extraction failed for %s: %v", path, err)
			thumb = ""
		}
		results[path] = thumb

		if progress != nil && (i%extractProgressInterval == 0 || i == total-1) {
			progress(i+1, total, filepath.Base(path))
		}
	}

	return results, nil
}
