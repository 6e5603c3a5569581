package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	DefaultCacheSubDir = "cache"
	DefaultTrashSubDir = "trash"
	DefaultDatabase    = "scan_cache.db"
)

const (
	defaultThumbnailMaxSize    = 320
	defaultSimilarityThreshold = 10
	minHashWorkers             = 4
)

type Config struct {
	// application home (everything generated lives under here)
	HomeDir string

	// thumbnail cache directory (plain JPEG files keyed by content identity)
	CacheDir string

	// recoverable trash directory used by the delete endpoint
	TrashDir string

	// sqlite fingerprint cache path
	DatabasePath string

	// hashing worker pool size; 0 means NumCPU (floored at 4)
	HashWorkers int

	// thumbnail longest-side size in pixels
	ThumbnailMaxSize int

	// default pHash Hamming distance threshold for grouping
	SimilarityThreshold int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// HashPoolSize resolves the configured hashing worker count, defaulting to
// the available CPU count with a floor of 4.
func (c Config) HashPoolSize() int {
	if c.HashWorkers > 0 {
		return c.HashWorkers
	}
	n := runtime.NumCPU()
	if n < minHashWorkers {
		n = minHashWorkers
	}
	return n
}

func LoadConfig() (Config, error) {
	home := getEnvOrDefault("PHOTODEDUP_HOME", "")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to resolve user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".photodedup")
	}
	absHome, err := filepath.Abs(home)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for home directory '%s': %w", home, err)
	}

	cfg := Config{
		HomeDir:             absHome,
		CacheDir:            getEnvOrDefault("CACHE_DIR", filepath.Join(absHome, DefaultCacheSubDir)),
		TrashDir:            getEnvOrDefault("TRASH_DIR", filepath.Join(absHome, DefaultTrashSubDir)),
		DatabasePath:        getEnvOrDefault("DATABASE_PATH", filepath.Join(absHome, DefaultDatabase)),
		HashWorkers:         getEnvIntOrDefault("HASH_WORKERS", 0),
		ThumbnailMaxSize:    getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		SimilarityThreshold: getEnvIntOrDefault("SIMILARITY_THRESHOLD", defaultSimilarityThreshold),
	}

	return cfg, nil
}
