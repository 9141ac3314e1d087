package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellisplan/trellis/internal/model"
)

func TestScoreHealth_CleanGraph(t *testing.T) {
	g := diamondGraph(t)
	cycles := DetectCycles(g, 0)
	schedule, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	res := ScoreHealth(cycles, schedule, g)

	// Diamond degrees are uniform (2 each), so the top-decile rule marks
	// all four nodes and caps the penalty.
	assert.Equal(t, 100-20, res.Score)
	assert.Len(t, res.Bottlenecks, 4)
	assert.NotContains(t, res.Warnings, "cannot compute schedule: unresolved cycles")
}

func TestScoreHealth_CyclePenalty(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 1),
		item("b", model.TypeTask, 1),
		item("c", model.TypeTask, 1),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
		conn("c2", "b", "c", model.ConnDependency, 0.5),
		conn("c3", "c", "a", model.ConnBlocks, 0.5),
	})
	require.NoError(t, err)

	cycles := DetectCycles(g, 0)
	require.True(t, cycles.HasCycles)

	res := ScoreHealth(cycles, nil, g)

	// 100 - 40 (cycles) - 15 (three bottlenecks at uniform degree).
	assert.Equal(t, 45, res.Score)
	assert.Contains(t, res.Warnings, "cannot compute schedule: unresolved cycles")
}

func TestScoreHealth_OrphanPenaltyAndWarning(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 1),
		item("b", model.TypeTask, 1),
		item("lone1", model.TypeTask, 1),
		item("lone2", model.TypeTask, 1),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
	})
	require.NoError(t, err)

	cycles := DetectCycles(g, 0)
	schedule, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	res := ScoreHealth(cycles, schedule, g)

	found := false
	for _, w := range res.Warnings {
		if w == "2 items have no connections: lone1, lone2" {
			found = true
		}
	}
	assert.True(t, found, "expected orphan warning, got %v", res.Warnings)
}

func TestScoreHealth_GuardExceededWarning(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 1),
		item("b", model.TypeTask, 1),
		item("c", model.TypeTask, 1),
		item("d", model.TypeTask, 1),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
		conn("c2", "b", "a", model.ConnDependency, 0.5),
		conn("c3", "c", "d", model.ConnDependency, 0.5),
		conn("c4", "d", "c", model.ConnDependency, 0.5),
	})
	require.NoError(t, err)

	cycles := DetectCycles(g, 1)
	require.True(t, cycles.GuardExceeded)

	res := ScoreHealth(cycles, nil, g)
	assert.Contains(t, res.Warnings, "cycle enumeration stopped at 1 cycles; the list may be incomplete")
}

func TestScoreHealth_DefaultedDurationOnCriticalPathWarning(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 0), // defaulted, on the only path
		item("b", model.TypeTask, 2),
	}
	g, err := BuildGraph(items, []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
	})
	require.NoError(t, err)

	cycles := DetectCycles(g, 0)
	schedule, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	res := ScoreHealth(cycles, schedule, g)
	assert.Contains(t, res.Warnings, "critical path relies on default 1-day estimates for: a")
}

func TestRiskScore_ClampedAndSlackWeighted(t *testing.T) {
	g := diamondGraph(t)
	cycles := DetectCycles(g, 0)
	schedule, err := ComputeCriticalPath(g)
	require.NoError(t, err)

	res := ScoreHealth(cycles, schedule, g)

	// Zero-slack node: full degree counts.
	assert.InDelta(t, 2.0, res.Risk["a"], 1e-9)
	// Slack of 2 over a 7-day project discounts the degree.
	assert.InDelta(t, 2.0*(1-2.0/7.0), res.Risk["c"], 1e-9)

	for _, r := range res.Risk {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 100.0)
	}
}
