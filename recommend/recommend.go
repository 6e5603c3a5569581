// Package recommend turns similarity groups plus edit status into
// keep/delete recommendations.
package recommend

import (
	"math"

	"photodedup/models"
)

// ForGroup partitions one group's members. Precedence per member:
// rejected (pick == -1) is checked before anything else and forces delete,
// even for an edited photo; edited or flagged members are kept; everything
// else is deleted. If that leaves keep empty while delete is non-empty,
// the first delete member (in the group's path order) is moved back to
// keep so no group is ever fully wiped out.
func ForGroup(group models.PhotoGroup, status models.EditStatus) models.Recommendation {
	rec := models.Recommendation{
		GroupID:      group.GroupID,
		TotalInGroup: group.Count,
		Keep:         []string{},
		Delete:       []string{},
	}

	sizes := make(map[string]int64, len(group.Photos))
	for _, photo := range group.Photos {
		sizes[photo.Path] = photo.Size

		flag, flagged := status.Flagged[photo.Path]
		switch {
		case flag.Pick == -1:
			rec.Delete = append(rec.Delete, photo.Path)
		case status.IsEdited(photo.Path) || flagged:
			rec.Keep = append(rec.Keep, photo.Path)
		default:
			rec.Delete = append(rec.Delete, photo.Path)
		}
	}

	// survivor invariant
	if len(rec.Keep) == 0 && len(rec.Delete) > 0 {
		rec.Keep = append(rec.Keep, rec.Delete[0])
		rec.Delete = rec.Delete[1:]
	}

	for _, path := range rec.Delete {
		rec.SaveBytes += sizes[path]
	}
	rec.KeepCount = len(rec.Keep)
	rec.DeleteCount = len(rec.Delete)
	return rec
}

// All generates recommendations for every group and aggregates the
// savings summary.
func All(groups []models.PhotoGroup, status models.EditStatus) *models.RecommendationSet {
	set := &models.RecommendationSet{
		Recommendations: make([]models.Recommendation, 0, len(groups)),
	}

	for _, group := range groups {
		rec := ForGroup(group, status)
		set.Recommendations = append(set.Recommendations, rec)
		set.Summary.KeepCount += rec.KeepCount
		set.Summary.DeleteCount += rec.DeleteCount
		set.Summary.SaveBytes += rec.SaveBytes
	}

	set.Summary.TotalGroups = len(groups)
	set.Summary.TotalPhotos = set.Summary.KeepCount + set.Summary.DeleteCount
	set.Summary.SaveGB = math.Round(float64(set.Summary.SaveBytes)/(1<<30)*100) / 100
	return set
}
