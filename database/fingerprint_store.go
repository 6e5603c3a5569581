package database

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photodedup/models"
)

// FingerprintStore persists computed fingerprints keyed by (path, mtime).
// A changed file produces a new key, so stale rows just stop matching;
// they are not actively evicted.
type FingerprintStore struct {
	db *gorm.DB
}

func NewFingerprintStore(db *gorm.DB) *FingerprintStore {
	return &FingerprintStore{db: db}
}

// Lookup returns the cached fingerprint for a photo at a given mtime.
func (s *FingerprintStore) Lookup(path string, modTime int64) (string, bool) {
	var fp models.Fingerprint
	err := s.db.Where("path = ? AND mod_time = ?", path, modTime).First(&fp).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("database: fingerprint lookup failed for %s: %v", path, err)
		}
		return "", false
	}
	return fp.Hash, true
}

// Store upserts a fingerprint. Cache writes are best-effort; a failed
// insert only costs a recompute next run.
func (s *FingerprintStore) Store(path string, modTime int64, hash string) {
	fp := models.Fingerprint{Path: path, ModTime: modTime, Hash: hash}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&fp).Error
	if err != nil {
		log.Printf("database: fingerprint store failed for %s: %v", path, err)
	}
}
