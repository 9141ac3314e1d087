package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellisplan/trellis/internal/model"
)

// diamondGraph is the reference schedule: A(2) fans out to B(3) and C(1),
// both joining at D(2). The critical path runs A-B-D in 7 days and C has
// two days of slack.
func diamondGraph(t *testing.T) *Graph {
	t.Helper()
	items := []*model.WorkItem{
		item("a", model.TypeFeature, 2),
		item("b", model.TypeFeature, 3),
		item("c", model.TypeFeature, 1),
		item("d", model.TypeFeature, 2),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.9),
		conn("c2", "b", "d", model.ConnDependency, 0.9),
		conn("c3", "a", "c", model.ConnDependency, 0.9),
		conn("c4", "c", "d", model.ConnDependency, 0.9),
	})
	require.NoError(t, err)
	return g
}

func TestComputeCriticalPath_Diamond(t *testing.T) {
	g := diamondGraph(t)

	res, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	assert.Equal(t, 7.0, res.ProjectDurationDays)
	assert.Equal(t, []string{"a", "b", "d"}, res.CriticalPath)

	c := res.Timings["c"]
	assert.Equal(t, 2.0, c.EarliestStart)
	assert.Equal(t, 3.0, c.EarliestFinish)
	assert.Equal(t, 4.0, c.LatestStart)
	assert.Equal(t, 5.0, c.LatestFinish)
	assert.Equal(t, 2.0, c.Slack)

	for _, id := range []string{"a", "b", "d"} {
		assert.InDelta(t, 0, res.Timings[id].Slack, slackEpsilon, "slack of %s", id)
		assert.True(t, res.OnCriticalPath(id))
	}
	assert.False(t, res.OnCriticalPath("c"))
}

func TestComputeCriticalPath_ProjectDurationIsMaxEarliestFinish(t *testing.T) {
	g := diamondGraph(t)
	res, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	maxEF := 0.0
	for _, tm := range res.Timings {
		if tm.EarliestFinish > maxEF {
			maxEF = tm.EarliestFinish
		}
	}
	assert.Equal(t, maxEF, res.ProjectDurationDays)
}

func TestComputeCriticalPath_DefaultsMissingDurations(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 0), // no estimate, defaults to 1
		item("b", model.TypeTask, 2),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
	})
	require.NoError(t, err)

	res, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	assert.Equal(t, 3.0, res.ProjectDurationDays)
	assert.Equal(t, []string{"a"}, res.DefaultedIDs)
	assert.Equal(t, 1.0, res.Timings["a"].EarliestFinish)
}

func TestComputeCriticalPath_OrphansStayOffCriticalPath(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 2),
		item("b", model.TypeTask, 3),
		item("lone", model.TypeTask, 1),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
	})
	require.NoError(t, err)

	res, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	lone := res.Timings["lone"]
	assert.Equal(t, 0.0, lone.EarliestStart)
	assert.Equal(t, 0.0, lone.LatestStart)
	assert.Equal(t, 0.0, lone.Slack)
	assert.False(t, res.OnCriticalPath("lone"))
	assert.Equal(t, []string{"a", "b"}, res.CriticalPath)
	assert.Equal(t, 5.0, res.ProjectDurationDays)
}

func TestComputeCriticalPath_RejectsCyclicGraph(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 1),
		item("b", model.TypeTask, 1),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
		conn("c2", "b", "a", model.ConnDependency, 0.5),
	})
	require.NoError(t, err)

	_, err = ComputeCriticalPath(g)
	assert.ErrorIs(t, err, ErrGraphHasCycles)
}

func TestComputeCriticalPath_EmptyGraph(t *testing.T) {
	g, err := BuildGraph(nil, nil)
	require.NoError(t, err)

	res, err := ComputeCriticalPath(g)
	require.NoError(t, err)
	assert.Empty(t, res.CriticalPath)
	assert.Equal(t, 0.0, res.ProjectDurationDays)
}
