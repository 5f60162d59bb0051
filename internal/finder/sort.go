package finder

import (
	"sort"

	"github.com/user/pathfind/internal/lane"
)

// Sort orders lanes by name, breaking ties by origin partition name.
// The sort is stable: lanes with identical keys keep their discovery
// order, so repeated runs over unchanged data produce identical
// sequences.
func Sort(lanes []*lane.Lane) {
	sort.SliceStable(lanes, func(i, j int) bool {
		if lanes[i].Name != lanes[j].Name {
			return lanes[i].Name < lanes[j].Name
		}
		return lanes[i].Partition().Name < lanes[j].Partition().Name
	})
}
