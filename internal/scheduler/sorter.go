package scheduler

import (
	"sort"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// CanonicalSort orders scheduled blocks for reporting:
// 1. Earliest first start (the block that must begin soonest)
// 2. Deadline: earliest first
// 3. Project number: lexical ascending
// 4. Block number: lexical ascending
// 5. Block ID: lexical ascending
func CanonicalSort(results []domain.ScheduledBlock) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		startA, startB := EarliestStart(a), EarliestStart(b)
		if !startA.Equal(startB) {
			return startA.Before(startB)
		}
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}
		if a.Block.ProjectNo != b.Block.ProjectNo {
			return a.Block.ProjectNo < b.Block.ProjectNo
		}
		if a.Block.BlockNo != b.Block.BlockNo {
			return a.Block.BlockNo < b.Block.BlockNo
		}
		return a.Block.ID < b.Block.ID
	})
}
