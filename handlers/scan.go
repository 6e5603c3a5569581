package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photodedup/config"
	"photodedup/pipeline"
)

// ScanHandler exposes run control and status polling.
type ScanHandler struct {
	Coordinator *pipeline.Coordinator
	Cfg         config.Config
}

// StartScan handles POST /api/scan
func (h *ScanHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	var req pipeline.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid request body: "+err.Error())
		return
	}
	if req.Threshold <= 0 {
		req.Threshold = h.Cfg.SimilarityThreshold
	}

	if err := h.Coordinator.Start(req); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrScanInProgress):
			WriteAPIError(w, http.StatusConflict, "scan_in_progress", "a scan is already running")
		case errors.Is(err, pipeline.ErrInvalidDirectory):
			WriteAPIError(w, http.StatusBadRequest, "invalid_directory", err.Error())
		default:
			WriteAPIError(w, http.StatusInternalServerError, "scan_start_failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "started", "message": "scan started"})
}

// Status handles GET /api/scan/status
func (h *ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.Coordinator.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       snap.Status,
		"progress":     snap.Progress,
		"total":        snap.Total,
		"message":      snap.Message,
		"current_file": snap.CurrentFile,
	})
}

// Reset handles POST /api/reset
func (h *ScanHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Coordinator.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
