package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/testutil"
)

func TestAggregateProjectMetrics(t *testing.T) {
	today := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	tasks := []*domain.Task{
		testutil.NewTestTask("p", "a", testutil.WithTaskStatus(domain.TaskCompleted)),
		testutil.NewTestTask("p", "b", testutil.WithTaskDueDate(yesterday)),
		testutil.NewTestTask("p", "c", testutil.WithTaskStatus(domain.TaskCancelled)),
	}

	m := aggregateProjectMetrics(tasks, today)
	assert.Equal(t, 3, m.TotalCount)
	assert.Equal(t, 1, m.DoneCount)
	assert.Equal(t, 1, m.OverdueCount)
	assert.Equal(t, 33.3, m.ProgressPct)
}

func TestAggregateProjectMetrics_NoTasks(t *testing.T) {
	m := aggregateProjectMetrics(nil, time.Now())
	assert.Equal(t, 0.0, m.ProgressPct)
	assert.Zero(t, m.TotalCount)
}

func TestAggregateProjectMetrics_RoundsToOneDecimal(t *testing.T) {
	tasks := []*domain.Task{
		testutil.NewTestTask("p", "a", testutil.WithTaskStatus(domain.TaskCompleted)),
		testutil.NewTestTask("p", "b", testutil.WithTaskStatus(domain.TaskCompleted)),
		testutil.NewTestTask("p", "c"),
	}
	assert.Equal(t, 66.7, aggregateProjectMetrics(tasks, time.Now()).ProgressPct)
}

func TestFilterProjectsByID(t *testing.T) {
	ps := []*domain.Project{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Len(t, filterProjectsByID(ps, nil), 3)

	got := filterProjectsByID(ps, []string{"c", "a"})
	assert.Equal(t, []*domain.Project{{ID: "a"}, {ID: "c"}}, got)
}
