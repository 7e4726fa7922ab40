package dedup

import (
	"dupfinder/internal/models"
)

// Store is the slice of the fingerprint store that duplicate detection and
// deletion consume.
type Store interface {
	GroupByFingerprint() ([]*models.DuplicateGroup, error)
	Delete(path string) error
}

// Find returns every group of two or more tracked images sharing a
// fingerprint.
//
// With matchTime set, a group whose members report more than one distinct
// capture time is dropped — unless any member's capture time is the
// TimeUnknown sentinel, in which case the group is kept regardless. When the
// time cannot be known, treating the images as duplicates is the safer call.
func Find(store Store, matchTime bool) ([]*models.DuplicateGroup, error) {
	all, err := store.GroupByFingerprint()
	if err != nil {
		return nil, err
	}

	var dups []*models.DuplicateGroup
	for _, group := range all {
		if group.Count < 2 {
			continue
		}
		if matchTime && !sameCaptureTime(group) {
			continue
		}
		dups = append(dups, group)
	}

	return dups, nil
}

func sameCaptureTime(group *models.DuplicateGroup) bool {
	times := make(map[string]struct{}, len(group.Items))
	for _, item := range group.Items {
		if item.CaptureTime == models.TimeUnknown {
			return true
		}
		times[item.CaptureTime] = struct{}{}
	}
	return len(times) <= 1
}
