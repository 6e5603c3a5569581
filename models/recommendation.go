package models

// Recommendation is the keep/delete partition for one similarity group.
// Keep is never empty for a non-empty group.
type Recommendation struct {
	GroupID      int      `json:"group_id"`
	TotalInGroup int      `json:"total_in_group"`
	Keep         []string `json:"keep"`
	Delete       []string `json:"delete"`
	KeepCount    int      `json:"keep_count"`
	DeleteCount  int      `json:"delete_count"`
	SaveBytes    int64    `json:"save_bytes"` // sum of sizes of Delete members only
}

// RecommendationSummary aggregates recommendations across all groups.
type RecommendationSummary struct {
	TotalGroups int     `json:"total_groups"`
	TotalPhotos int     `json:"total_photos"`
	KeepCount   int     `json:"keep_count"`
	DeleteCount int     `json:"delete_count"`
	SaveBytes   int64   `json:"save_bytes"`
	SaveGB      float64 `json:"save_gb"` // SaveBytes / 2^30, 2 decimal places
}

// RecommendationSet is the full recommendation payload for a run.
type RecommendationSet struct {
	Recommendations []Recommendation      `json:"recommendations"`
	Summary         RecommendationSummary `json:"summary"`
}
