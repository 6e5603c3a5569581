package models

// Photo describes a single discovered photo file. Records are built once
// during scanning and never mutated afterwards.
type Photo struct {
	Path        string  `json:"path"` // absolute path, unique key
	Filename    string  `json:"filename"`
	Size        int64   `json:"size"`
	DateTaken   *string `json:"date_taken,omitempty"`   // Nullable, EXIF DateTimeOriginal
	CameraModel *string `json:"camera_model,omitempty"` // Nullable, EXIF Model
}

// GroupPhoto is a photo's membership entry inside a similarity group.
type GroupPhoto struct {
	Path string `json:"path"`
	Hash string `json:"hash"` // 16-char hex pHash
	Size int64  `json:"size"`
}

// PhotoGroup is a cluster of perceptually similar photos. Groups always
// hold at least two members, sorted by path ascending, and are regenerated
// wholesale on every run.
type PhotoGroup struct {
	GroupID   int          `json:"group_id"`
	Count     int          `json:"count"`
	TotalSize int64        `json:"total_size"`
	Photos    []GroupPhoto `json:"photos"`
}
