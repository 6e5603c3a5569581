package models

// FlagInfo carries the rating/flag metadata parsed from an XMP sidecar.
// A sidecar rating of -1 is the rejection convention: it never means
// "rated -1", it collapses to Pick == -1 with Rating reset to 0.
type FlagInfo struct {
	Rating int    `json:"rating"`
	Pick   int    `json:"pick"` // -1 rejected, 0 neutral, 1 picked
	Label  string `json:"label"`
}

// EditStatus is the outcome of sidecar detection over a set of photos.
type EditStatus struct {
	// Edited holds every path with a discovered sidecar
	Edited map[string]bool

	// Flagged holds only paths with rating > 0, pick != 0 or a label
	Flagged map[string]FlagInfo
}

// NewEditStatus returns an empty status with both maps initialized.
func NewEditStatus() EditStatus {
	return EditStatus{
		Edited:  make(map[string]bool),
		Flagged: make(map[string]FlagInfo),
	}
}

// IsEdited reports whether a sidecar was found for path.
func (s EditStatus) IsEdited(path string) bool { return s.Edited[path] }

// Flag returns the flag info for path, zero-valued when the photo is not
// flagged.
func (s EditStatus) Flag(path string) FlagInfo { return s.Flagged[path] }
