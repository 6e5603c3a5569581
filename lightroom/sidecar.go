// Package lightroom detects external edit status for photos via XMP
// sidecar files. Lightroom writes a sidecar next to a RAW file when it is
// edited; the sidecar also carries the star rating and color label. This
// package never fails past its boundary: per-photo problems are absorbed
// and the photo is simply treated as unedited or unflagged.
package lightroom

import (
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"

	"photodedup/models"
)

var (
	ratingRe = regexp.MustCompile(`xmp:Rating="(-?\d+)"`)
	labelRe  = regexp.MustCompile(`xmp:Label="([^"]*)"`)
)

// sidecarPath returns the existing sidecar for a photo, trying lower-case
// then upper-case extension variants, or "" when neither exists.
func sidecarPath(photoPath string) string {
	ext := strings.LastIndex(photoPath, ".")
	base := photoPath
	if ext > strings.LastIndexByte(photoPath, os.PathSeparator) {
		base = photoPath[:ext]
	}
	for _, sidecarExt := range []string{".xmp", ".XMP"} {
		candidate := base + sidecarExt
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// parseSidecar extracts rating, pick and label from a sidecar. A rating of
// -1 is Lightroom's rejection convention: it becomes pick == -1 and the
// rating collapses to 0, never "rated -1".
func parseSidecar(path string) (models.FlagInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.FlagInfo{}, err
	}
	content := string(data)

	var info models.FlagInfo
	if m := ratingRe.FindStringSubmatch(content); m != nil {
		if rating, err := strconv.Atoi(m[1]); err == nil {
			info.Rating = rating
		}
	}
	if info.Rating == -1 {
		info.Pick = -1
		info.Rating = 0
	}
	if m := labelRe.FindStringSubmatch(content); m != nil {
		info.Label = m[1]
	}
	return info, nil
}

// DetectEditStatus classifies each photo as edited (a sidecar exists) and
// flagged (rating > 0, pick != 0 or a non-empty label). A sidecar that
// exists but fails to parse still marks the photo edited.
func DetectEditStatus(ctx context.Context, photoPaths []string) models.EditStatus {
	status := models.NewEditStatus()

	for _, photoPath := range photoPaths {
		if ctx.Err() != nil {
			return status
		}

		sidecar := sidecarPath(photoPath)
		if sidecar == "" {
			continue
		}
		status.Edited[photoPath] = true

		info, err := parseSidecar(sidecar)
		if err != nil {
			continue
		}
		if info.Rating > 0 || info.Pick != 0 || info.Label != "" {
			status.Flagged[photoPath] = info
		}
	}

	return status
}
