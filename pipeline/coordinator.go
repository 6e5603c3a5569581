// Package pipeline sequences a deduplication run: scan, thumbnail
// extraction, fingerprint hashing, similarity grouping, edit-status
// detection and recommendation. The coordinator is process-wide and
// single-flight: one background worker executes a run stage by stage
// while status polls and the progress stream read a consistent snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"photodedup/grouper"
	"photodedup/lightroom"
	"photodedup/recommend"
	"photodedup/scanner"
	"photodedup/thumbs"
	"photodedup/workers"
)

var (
	// ErrScanInProgress rejects a start request while a run is active.
	ErrScanInProgress = errors.New("pipeline: scan already in progress")

	// ErrInvalidDirectory rejects a start request for a bad root.
	ErrInvalidDirectory = errors.New("pipeline: directory does not exist")
)

// ScanRequest is the input for one run.
type ScanRequest struct {
	Directory     string `json:"directory"`
	CatalogPath   string `json:"lrcat_path,omitempty"`
	Threshold     int    `json:"threshold"`
	IncludeImages bool   `json:"include_images"`
}

// Coordinator owns the run lifecycle and the shared snapshot. One mutex
// serializes start, reset and every snapshot publish, so the accept check
// is atomic with the state write and readers never observe torn fields.
type Coordinator struct {
	extractor *thumbs.Extractor
	engine    *workers.HashEngine

	mu     sync.Mutex
	snap   Snapshot
	cancel context.CancelFunc
	gen    uint64 // incremented on start and reset; stale workers stop publishing
}

func NewCoordinator(extractor *thumbs.Extractor, engine *workers.HashEngine) *Coordinator {
	return &Coordinator{
		extractor: extractor,
		engine:    engine,
		snap:      initialSnapshot(),
	}
}

// Snapshot returns a copy of the current run state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Start accepts a run when the coordinator is idle or in a terminal
// state, clears previous results and launches the background worker.
// Returns ErrScanInProgress or ErrInvalidDirectory otherwise.
func (c *Coordinator) Start(req ScanRequest) error {
	info, err := os.Stat(req.Directory)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidDirectory, req.Directory)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.snap.Status.startable() {
		return ErrScanInProgress
	}
	if c.cancel != nil {
		c.cancel()
	}

	c.gen++
	gen := c.gen

	snap := initialSnapshot()
	snap.Status = StatusScanning
	snap.Stage = StatusScanning
	snap.ScanDir = req.Directory
	snap.Message = "scanning directory for photo files..."
	c.snap = snap

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go c.run(ctx, gen, req)
	return nil
}

// Reset forces the coordinator back to idle and clears all results. An
// in-flight run is cancelled; its context is checked between items and
// stages, and its generation is retired so any writes still racing out of
// it are dropped instead of landing on the fresh state.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.snap = initialSnapshot()
}

// publish applies a mutation to the snapshot unless the generation is
// stale. Returns false when the run has been superseded.
func (c *Coordinator) publish(gen uint64, mutate func(*Snapshot)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	mutate(&c.snap)
	return true
}

func (c *Coordinator) setStage(gen uint64, stage Status, message string) bool {
	return c.publish(gen, func(s *Snapshot) {
		s.Status = stage
		s.Stage = stage
		s.Message = message
		s.Progress = 0
		s.Total = 0
		s.CurrentFile = ""
	})
}

func (c *Coordinator) setError(gen uint64, err error) {
	c.publish(gen, func(s *Snapshot) {
		s.Status = StatusError
		s.Stage = StatusError
		s.Message = fmt.Sprintf("scan failed: %v", err)
	})
	log.Printf("pipeline: run failed: %v", err)
}

// run executes the whole pipeline for one accepted request.
func (c *Coordinator) run(ctx context.Context, gen uint64, req ScanRequest) {
	// stage 1: scan
	photos, err := scanner.Scan(ctx, req.Directory,
		scanner.Options{IncludeImages: req.IncludeImages, ReadExif: true},
		func(processed, total int, filename string) {
			c.publish(gen, func(s *Snapshot) {
				s.Message = "scanning: " + filename
				s.Progress = processed
				s.Total = total
				s.CurrentFile = filename
			})
		})
	if err != nil {
		if ctx.Err() == nil {
			c.setError(gen, err)
		}
		return
	}
	c.publish(gen, func(s *Snapshot) { s.Photos = photos })

	if len(photos) == 0 {
		c.publish(gen, func(s *Snapshot) {
			s.Status = StatusDone
			s.Stage = StatusDone
			s.Message = "no photo files found"
		})
		return
	}

	// stage 2: thumbnail extraction
	if !c.setStage(gen, StatusExtracting, "extracting thumbnails...") {
		return
	}
	paths := make([]string, len(photos))
	for i, p := range photos {
		paths[i] = p.Path
	}
	thumbnails, err := workers.ExtractBatch(ctx, c.extractor, paths,
		func(processed, total int, filename string) {
			c.publish(gen, func(s *Snapshot) {
				s.Message = "extracting thumbnail: " + filename
				s.Progress = processed
				s.Total = total
				s.CurrentFile = filename
			})
		})
	if err != nil {
		if ctx.Err() == nil {
			c.setError(gen, err)
		}
		return
	}

	// stage 3: fingerprint hashing
	if !c.setStage(gen, StatusHashing, "computing image fingerprints...") {
		return
	}
	fingerprints, err := c.engine.ComputeBatch(ctx, thumbnails,
		func(completed, total int) {
			c.publish(gen, func(s *Snapshot) {
				s.Message = fmt.Sprintf("hashing: %d/%d", completed, total)
				s.Progress = completed
				s.Total = total
			})
		})
	if err != nil {
		if ctx.Err() == nil {
			c.setError(gen, err)
		}
		return
	}
	c.publish(gen, func(s *Snapshot) { s.Fingerprints = fingerprints })

	// stage 4: grouping, edit detection, recommendation
	if !c.setStage(gen, StatusGrouping, "identifying similar photos...") {
		return
	}
	sizes := make(map[string]int64, len(photos))
	for _, p := range photos {
		sizes[p.Path] = p.Size
	}
	groups, err := grouper.GroupSimilar(fingerprints, sizes, req.Threshold)
	if err != nil {
		c.setError(gen, err)
		return
	}
	c.publish(gen, func(s *Snapshot) { s.Groups = groups })

	// edit-status problems are reported but never fail the run
	c.publish(gen, func(s *Snapshot) { s.Message = "detecting external edit status..." })
	status := lightroom.DetectEditStatus(ctx, paths)
	if ctx.Err() != nil {
		return
	}
	c.publish(gen, func(s *Snapshot) {
		s.EditStatus = status
		if n := len(status.Edited); n > 0 {
			s.Message = fmt.Sprintf("found %d edited photos", n)
		}
	})

	c.publish(gen, func(s *Snapshot) { s.Message = "generating recommendations..." })
	recommendations := recommend.All(groups, status)

	c.publish(gen, func(s *Snapshot) {
		s.Recommendations = recommendations
		s.Status = StatusDone
		s.Stage = StatusDone
		s.Message = fmt.Sprintf("scan complete: %d photos, %d similar groups", len(photos), len(groups))
	})
}

// Annotated view helpers used by the HTTP layer.

// GroupView is a PhotoGroup with per-photo edit annotations.
type GroupView struct {
	GroupID   int              `json:"group_id"`
	Count     int              `json:"count"`
	TotalSize int64            `json:"total_size"`
	Photos    []GroupPhotoView `json:"photos"`
}

type GroupPhotoView struct {
	Path      string `json:"path"`
	Hash      string `json:"hash"`
	Size      int64  `json:"size"`
	IsEdited  bool   `json:"is_edited"`
	IsFlagged bool   `json:"is_flagged"`
	Rating    int    `json:"rating"`
	Pick      int    `json:"pick"`
}

// AnnotatedGroups merges the snapshot's groups with its edit status.
func (s Snapshot) AnnotatedGroups() []GroupView {
	views := make([]GroupView, 0, len(s.Groups))
	for _, group := range s.Groups {
		view := GroupView{
			GroupID:   group.GroupID,
			Count:     group.Count,
			TotalSize: group.TotalSize,
			Photos:    make([]GroupPhotoView, 0, len(group.Photos)),
		}
		for _, photo := range group.Photos {
			flag := s.EditStatus.Flag(photo.Path)
			_, flagged := s.EditStatus.Flagged[photo.Path]
			view.Photos = append(view.Photos, GroupPhotoView{
				Path:      photo.Path,
				Hash:      photo.Hash,
				Size:      photo.Size,
				IsEdited:  s.EditStatus.IsEdited(photo.Path),
				IsFlagged: flagged,
				Rating:    flag.Rating,
				Pick:      flag.Pick,
			})
		}
		views = append(views, view)
	}
	return views
}
