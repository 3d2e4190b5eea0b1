package dashboard

import (
	"fmt"
	"sort"

	"github.com/yt-dashboard/internal/models"
)

// Direction is the order of a sort
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection resolves a direction name, defaulting to ascending
func ParseDirection(name string) (Direction, error) {
	switch Direction(name) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// SortSpec is a single-key sort
type SortSpec struct {
	Key       Field     `json:"key"`
	Direction Direction `json:"direction"`
}

// NextSort returns the sort produced by clicking the key column: the same key
// sorted ascending flips to descending, anything else starts ascending.
func NextSort(current *SortSpec, key Field) SortSpec {
	if current != nil && current.Key == key && current.Direction == Ascending {
		return SortSpec{Key: key, Direction: Descending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// Sort returns a stably sorted copy of records. A nil spec keeps input order.
func Sort(records []models.VideoRecord, spec *SortSpec) []models.VideoRecord {
	sorted := append([]models.VideoRecord{}, records...)
	if spec == nil {
		return sorted
	}
	if _, ok := accessors[spec.Key]; !ok {
		return sorted
	}

	sign := 1
	if spec.Direction == Descending {
		sign = -1
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sign*spec.Key.compare(&sorted[i], &sorted[j]) < 0
	})
	return sorted
}
