package models

// Fingerprint is a cached perceptual hash row. The (path, mod_time) key
// implicitly invalidates an entry whenever the source file changes; stale
// rows are not actively evicted.
type Fingerprint struct {
	Path    string `gorm:"primaryKey" json:"path"`
	ModTime int64  `gorm:"primaryKey" json:"mod_time"`
	Hash    string `gorm:"not null" json:"hash"`
}

// TableName explicitly sets the table name for GORM.
func (Fingerprint) TableName() string {
	return "fingerprints"
}
