package lightroom

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

const (
	catalogSearchTimeout = 10 * time.Second
	catalogSearchDepth   = 3
)

// FindCatalogs locates Lightroom catalog files (.lrcat for Classic,
// .lrlibrary for CC) on this machine, best-effort. On macOS it asks
// Spotlight first, then falls back to a shallow walk of the usual photo
// directories on every platform. Not wired into the pipeline; serves the
// informational catalog endpoint only.
func FindCatalogs(ctx context.Context, extraDirs ...string) []string {
	ctx, cancel := context.WithTimeout(ctx, catalogSearchTimeout)
	defer cancel()

	found := make(map[string]bool)

	if runtime.GOOS == "darwin" {
		for _, name := range []string{".lrcat", ".lrlibrary"} {
			out, err := exec.CommandContext(ctx, "mdfind", "-name", name).Output()
			if err != nil {
				continue
			}
			for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
				line = strings.TrimSpace(line)
				if !isCatalogPath(line) {
					continue
				}
				if _, err := os.Stat(line); err == nil {
					found[line] = true
				}
			}
		}
	}

	home, err := os.UserHomeDir()
	searchDirs := extraDirs
	if err == nil {
		searchDirs = append([]string{
			filepath.Join(home, "Pictures"),
			filepath.Join(home, "Documents"),
		}, searchDirs...)
	}

	for _, dir := range searchDirs {
		if ctx.Err() != nil {
			break
		}
		walkForCatalogs(ctx, dir, found)
	}

	catalogs := make([]string, 0, len(found))
	for path := range found {
		catalogs = append(catalogs, path)
	}
	sort.Strings(catalogs)
	return catalogs
}

func isCatalogPath(path string) bool {
	return strings.HasSuffix(path, ".lrcat") || strings.HasSuffix(path, ".lrlibrary")
}

// walkForCatalogs scans a directory a few levels deep; deep trees are cut
// off so a home directory never turns into a full filesystem crawl.
func walkForCatalogs(ctx context.Context, dir string, found map[string]bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if d.IsDir() {
			rel, err := filepath.Rel(dir, path)
			if err == nil && strings.Count(rel, string(os.PathSeparator)) >= catalogSearchDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if isCatalogPath(path) {
			found[path] = true
		}
		return nil
	})
}
