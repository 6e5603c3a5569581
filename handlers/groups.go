package handlers

import (
	"net/http"

	"photodedup/pipeline"
)

// GroupHandler serves clustering results and recommendations.
type GroupHandler struct {
	Coordinator *pipeline.Coordinator
}

// Groups handles GET /api/groups
func (h *GroupHandler) Groups(w http.ResponseWriter, r *http.Request) {
	snap := h.Coordinator.Snapshot()
	if snap.Status != pipeline.StatusDone {
		WriteAPIError(w, http.StatusBadRequest, "scan_not_done", "scan has not completed")
		return
	}

	groups := snap.AnnotatedGroups()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
		"total":  len(groups),
	})
}

// Recommendations handles GET /api/recommendations
func (h *GroupHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	snap := h.Coordinator.Snapshot()
	if snap.Status != pipeline.StatusDone {
		WriteAPIError(w, http.StatusBadRequest, "scan_not_done", "scan has not completed")
		return
	}
	if snap.Recommendations == nil {
		WriteAPIError(w, http.StatusNotFound, "no_recommendations", "no recommendations computed")
		return
	}
	writeJSON(w, http.StatusOK, snap.Recommendations)
}
