package service

import (
	"sort"

	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

var priorityRank = map[string]int{
	entity.PriorityHigh:   1,
	entity.PriorityMedium: 2,
	entity.PriorityLow:    3,
}

// Unknown priorities sort after the known three
func rankOf(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return 4
}

// RankTasks orders tasks by priority urgency first, earlier deadline second,
// creation time last. The input slice is left untouched. Sort is stable, so
// fully tied tasks keep their insertion order.
func RankTasks(tasks []*entity.Task) []*entity.Task {
	ranked := make([]*entity.Task, len(tasks))
	copy(ranked, tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := rankOf(ranked[i].Priority), rankOf(ranked[j].Priority)
		if ri != rj {
			return ri < rj
		}
		if !ranked[i].Deadline.Equal(ranked[j].Deadline) {
			return ranked[i].Deadline.Before(ranked[j].Deadline)
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})
	return ranked
}
