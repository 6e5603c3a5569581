package pipeline

import "photodedup/models"

// Status is the coordinator's lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusScanning   Status = "scanning"
	StatusExtracting Status = "extracting"
	StatusHashing    Status = "hashing"
	StatusGrouping   Status = "grouping"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Terminal reports whether a run in this status has finished.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// startable reports whether a new run may be accepted in this status.
func (s Status) startable() bool {
	return s == StatusIdle || s.Terminal()
}

// Snapshot is a point-in-time view of a run. Readers always receive a
// whole copy taken under the coordinator's lock, so a snapshot never mixes
// fields from two different publishes. The result fields are replaced
// wholesale per stage and never mutated after publication.
type Snapshot struct {
	Status      Status
	Stage       Status
	Progress    int
	Total       int
	CurrentFile string
	Message     string

	ScanDir         string
	Photos          []models.Photo
	Fingerprints    map[string]*string
	Groups          []models.PhotoGroup
	EditStatus      models.EditStatus
	Recommendations *models.RecommendationSet
}

func initialSnapshot() Snapshot {
	return Snapshot{
		Status:     StatusIdle,
		Stage:      StatusIdle,
		EditStatus: models.NewEditStatus(),
	}
}
