package workers

import (
	"context"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"photodedup/phash"
)

// hashing reports progress every 50 completions and on the final one
const hashProgressInterval = 50

// HashProgressFunc receives completion counts only; completion order
// across the pool is unspecified, so no filename is reported.
type HashProgressFunc func(completed, total int)

// FingerprintCache looks up and stores fingerprints keyed by a photo's
// path and modification time.
type FingerprintCache interface {
	Lookup(path string, modTime int64) (string, bool)
	Store(path string, modTime int64, hash string)
}

// HashEngine computes perceptual fingerprints for a batch of photos on a
// bounded worker pool.
type HashEngine struct {
	// Workers bounds the pool; values <= 0 fall back to 1
	Workers int

	// Cache is optional; when set, fingerprints are reused across runs
	Cache FingerprintCache
}

func NewHashEngine(workers int, cache FingerprintCache) *HashEngine {
	if workers <= 0 {
		workers = 1
	}
	return &HashEngine{Workers: workers, Cache: cache}
}

// ComputeBatch fingerprints every path whose thumbnail is non-empty.
// The result contains every input path exactly once, with nil for paths
// lacking a thumbnail or whose computation failed; a single failure never
// aborts the batch. Completion order is unspecified.
func (e *HashEngine) ComputeBatch(ctx context.Context, thumbnails map[string]string, progress HashProgressFunc) (map[string]*string, error) {
	results := make(map[string]*string, len(thumbnails))

	var pending []string
	for path, thumb := range thumbnails {
		if thumb == "" {
			results[path] = nil
			continue
		}
		pending = append(pending, path)
	}

	total := len(pending)
	completed := 0
	var mu sync.Mutex

	record := func(path string, hash *string) {
		mu.Lock()
		defer mu.Unlock()
		results[path] = hash
		completed++
		if progress != nil && (completed%hashProgressInterval == 0 || completed == total) {
			progress(completed, total)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.Workers)

	for _, path := range pending {
		path, thumb := path, thumbnails[path]
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record(path, e.fingerprint(path, thumb))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fingerprint computes (or recalls) a single photo's fingerprint, keyed in
// the cache by the original file's path and mtime rather than the
// thumbnail's.
func (e *HashEngine) fingerprint(path, thumb string) *string {
	var modTime int64
	if stat, err := os.Stat(path); err == nil {
		modTime = stat.ModTime().Unix()
	}

	if e.Cache != nil && modTime != 0 {
		if hash, ok := e.Cache.Lookup(path, modTime); ok {
			return &hash
		}
	}

	hash, err := phash.ComputeFile(thumb)
	if err != nil {
		log.Printf("workers: fingerprint computation failed for %s: %v", path, err)
		return nil
	}

	if e.Cache != nil && modTime != 0 {
		e.Cache.Store(path, modTime, hash)
	}
	return &hash
}
