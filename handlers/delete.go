package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"photodedup/utils"
)

// DeleteHandler moves photos into the recoverable trash directory.
type DeleteHandler struct {
	TrashDir string
}

type deleteRequest struct {
	Paths []string `json:"paths"`
}

type deleteError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Delete handles POST /api/delete. Per-path failures are collected and
// reported; they never abort the batch.
func (h *DeleteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid request body: "+err.Error())
		return
	}

	deleted := []string{}
	errs := []deleteError{}

	for _, path := range req.Paths {
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, deleteError{Path: path, Error: "file does not exist"})
			continue
		}
		if _, err := utils.MoveToTrash(path, h.TrashDir); err != nil {
			log.Printf("handlers: failed to trash %s: %v", path, err)
			errs = append(errs, deleteError{Path: path, Error: err.Error()})
			continue
		}
		deleted = append(deleted, path)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted_count": len(deleted),
		"error_count":   len(errs),
		"deleted":       deleted,
		"errors":        errs,
	})
}
