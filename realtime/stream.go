// Package realtime streams pipeline progress to websocket clients. Each
// client gets its own poll loop over the coordinator's snapshot: deltas
// are pushed only when the frame changes, and a terminal status produces
// one final summary frame before the connection closes.
package realtime

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"photodedup/models"
	"photodedup/pipeline"
)

const pushInterval = 500 * time.Millisecond

// progressFrame is the periodic delta pushed while a run is active.
type progressFrame struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
}

// finalFrame is the one-shot summary pushed when a run reaches a terminal
// state.
type finalFrame struct {
	Stage       string                        `json:"stage"`
	Message     string                        `json:"message"`
	TotalPhotos int                           `json:"total_photos"`
	TotalGroups int                           `json:"total_groups"`
	Summary     *models.RecommendationSummary `json:"summary"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProgressStreamer serves the websocket progress endpoint.
type ProgressStreamer struct {
	Coordinator *pipeline.Coordinator

	// Interval overrides the push cadence; zero means the default
	Interval time.Duration
}

func NewProgressStreamer(coord *pipeline.Coordinator) *ProgressStreamer {
	return &ProgressStreamer{Coordinator: coord}
}

// ServeWS upgrades the connection and streams snapshot deltas until the
// run terminates or the client goes away.
func (ps *ProgressStreamer) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		// reader: just consume pings/close
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := ps.Interval
	if interval <= 0 {
		interval = pushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []byte
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
		}

		snap := ps.Coordinator.Snapshot()

		frame, err := json.Marshal(progressFrame{
			Stage:    string(snap.Stage),
			Progress: snap.Progress,
			Total:    snap.Total,
			Message:  snap.Message,
		})
		if err != nil {
			return
		}
		if !bytes.Equal(frame, last) {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
			last = frame
		}

		if snap.Status.Terminal() {
			final := finalFrame{
				Stage:       string(snap.Status),
				Message:     snap.Message,
				TotalPhotos: len(snap.Photos),
				TotalGroups: len(snap.Groups),
			}
			if snap.Recommendations != nil {
				final.Summary = &snap.Recommendations.Summary
			}
			if encoded, err := json.Marshal(final); err == nil {
				_ = conn.WriteMessage(websocket.TextMessage, encoded)
			}
			return
		}
	}
}
