package service

import (
	"math"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

// projectMetrics holds aggregated task data for a single project.
type projectMetrics struct {
	TotalCount   int
	DoneCount    int
	OverdueCount int
	ProgressPct  float64
}

// aggregateProjectMetrics counts a project's tasks. Progress is the share of
// completed tasks, rounded to one decimal; cancelled tasks still count toward
// the total.
func aggregateProjectMetrics(tasks []*domain.Task, today time.Time) projectMetrics {
	var m projectMetrics
	for _, t := range tasks {
		m.TotalCount++
		if t.IsCompleted() {
			m.DoneCount++
		}
		if t.Overdue(today) {
			m.OverdueCount++
		}
	}
	if m.TotalCount > 0 {
		m.ProgressPct = math.Round(float64(m.DoneCount)/float64(m.TotalCount)*1000) / 10
	}
	return m
}

// allRows lists every row of kind. Callers must have authorized access to
// the enclosing project already.
func allRows(kind domain.Kind) policy.QueryFilter {
	return policy.QueryFilter{Kind: kind, Unrestricted: true}
}

// filterProjectsByID returns only projects whose ID is in ids, keeping order.
// An empty ids returns projects unchanged.
func filterProjectsByID(projects []*domain.Project, ids []string) []*domain.Project {
	if len(ids) == 0 {
		return projects
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	var filtered []*domain.Project
	for _, p := range projects {
		if keep[p.ID] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
