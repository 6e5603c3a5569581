package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var rawExtensions = map[string]bool{
	".nef": true, // Nikon
	".cr2": true, // Canon (old)
	".cr3": true, // Canon (new)
	".arw": true, // Sony
	".orf": true, // Olympus
	".rw2": true, // Panasonic
	".raf": true, // Fujifilm
	".dng": true, // Adobe DNG
	".pef": true, // Pentax
}

var rasterExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tiff": true, ".tif": true, ".heic": true,
}

// IsRawImage checks if the filename has a supported RAW extension
func IsRawImage(filename string) bool {
	return rawExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	return rasterExtensions[strings.ToLower(filepath.Ext(filename))]
}

// MoveToTrash moves a file into trashDir instead of erasing it, so the
// operation is recoverable. Name collisions get a UUID suffix. Returns the
// destination path.
func MoveToTrash(path, trashDir string) (string, error) {
	if err := os.MkdirAll(trashDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create trash directory %s: %w", trashDir, err)
	}

	dest := filepath.Join(trashDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		base := strings.TrimSuffix(filepath.Base(dest), ext)
		dest = filepath.Join(trashDir, fmt.Sprintf("%s.%s%s", base, uuid.NewString(), ext))
	}

	if err := os.Rename(path, dest); err == nil {
		return dest, nil
	}

	// rename fails across filesystems; fall back to copy + remove
	if err := copyFile(path, dest); err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("copied %s to trash but failed to remove original: %w", path, err)
	}
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
