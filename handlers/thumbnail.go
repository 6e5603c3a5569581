package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"photodedup/thumbs"
)

// ThumbnailHandler serves cached JPEG previews for original photo paths.
type ThumbnailHandler struct {
	Extractor *thumbs.Extractor
}

// Get handles GET /api/thumbnail?path=/abs/path/to/photo.nef
func (h *ThumbnailHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_path", "path query parameter is required")
		return
	}

	thumbPath, err := h.Extractor.Extract(path)
	if err != nil {
		log.Printf("handlers: thumbnail extraction failed for %s: %v", path, err)
		WriteAPIError(w, http.StatusNotFound, "thumbnail_failed", "thumbnail extraction failed")
		return
	}

	cacheDuration := 24 * time.Hour
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(cacheDuration.Seconds())))
	w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

	http.ServeFile(w, r, thumbPath)
}
