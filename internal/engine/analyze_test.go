package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellisplan/trellis/internal/model"
)

func TestAnalyze_AcyclicSnapshot(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeFeature, 2),
		item("b", model.TypeFeature, 3),
		item("c", model.TypeFeature, 1),
		item("d", model.TypeFeature, 2),
	}
	conns := []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.9),
		conn("c2", "b", "d", model.ConnDependency, 0.9),
		conn("c3", "a", "c", model.ConnDependency, 0.9),
		conn("c4", "c", "d", model.ConnDependency, 0.9),
	}

	res, err := Analyze(items, conns, Options{})
	require.NoError(t, err)

	assert.False(t, res.HasCycles)
	assert.Empty(t, res.Cycles)
	assert.Equal(t, []string{"a", "b", "d"}, res.CriticalPath)
	assert.Equal(t, 7.0, res.ProjectDurationDays)

	byID := make(map[string]*model.NodeMetrics)
	for _, n := range res.Nodes {
		byID[n.WorkItemID] = n
	}
	require.Len(t, byID, 4)
	assert.Equal(t, 2.0, byID["c"].Slack)
	assert.False(t, byID["c"].IsOnCriticalPath)
	assert.True(t, byID["b"].IsOnCriticalPath)
	assert.Equal(t, 1, byID["b"].DependencyCount)
	assert.Equal(t, 1, byID["b"].DependentCount)
}

func TestAnalyze_CyclicSnapshotSkipsScheduling(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 1),
		item("b", model.TypeTask, 1),
		item("c", model.TypeTask, 1),
	}
	conns := []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.9),
		conn("c2", "b", "c", model.ConnDependency, 0.9),
		conn("c3", "c", "a", model.ConnBlocks, 0.9),
	}

	res, err := Analyze(items, conns, Options{})
	require.NoError(t, err)

	assert.True(t, res.HasCycles)
	require.Len(t, res.Cycles, 1)
	assert.Equal(t, model.SeverityHigh, res.Cycles[0].Severity)

	// Scheduling fields stay empty, never stale.
	assert.Empty(t, res.CriticalPath)
	assert.Equal(t, 0.0, res.ProjectDurationDays)
	for _, n := range res.Nodes {
		assert.Equal(t, 0.0, n.EarliestStart)
		assert.Equal(t, 0.0, n.LatestFinish)
		assert.False(t, n.IsOnCriticalPath)
	}

	assert.Contains(t, res.Warnings, "cannot compute schedule: unresolved cycles")
}

func TestAnalyze_Deterministic(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeEpic, 2),
		item("b", model.TypeBug, 0),
		item("c", model.TypeTask, 4),
		item("lone", model.TypeConcept, 1),
	}
	conns := []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.4),
		conn("c2", "b", "c", model.ConnBlocks, 0.6),
		conn("c3", "a", "c", model.ConnRelatesTo, 0.2),
	}

	first, err := Analyze(items, conns, Options{})
	require.NoError(t, err)
	second, err := Analyze(items, conns, Options{})
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestAnalyze_HealthNonIncreasingAsCyclesAdded(t *testing.T) {
	items := []*model.WorkItem{
		item("a", model.TypeTask, 1),
		item("b", model.TypeTask, 1),
		item("c", model.TypeTask, 1),
		item("d", model.TypeTask, 1),
		item("e", model.TypeTask, 1),
	}
	chain := []*model.Connection{
		conn("c1", "a", "b", model.ConnDependency, 0.5),
		conn("c2", "b", "c", model.ConnDependency, 0.5),
		conn("c3", "c", "d", model.ConnDependency, 0.5),
		conn("c4", "d", "e", model.ConnDependency, 0.5),
	}

	acyclic, err := Analyze(items, chain, Options{})
	require.NoError(t, err)

	withCycle, err := Analyze(items, append(chain, conn("c5", "e", "a", model.ConnDependency, 0.5)), Options{})
	require.NoError(t, err)

	assert.LessOrEqual(t, withCycle.HealthScore, acyclic.HealthScore)
	assert.True(t, withCycle.HasCycles)
}

func TestAnalyze_PropagatesInvalidEdge(t *testing.T) {
	items := []*model.WorkItem{item("a", model.TypeTask, 1)}
	conns := []*model.Connection{conn("c1", "a", "ghost", model.ConnDependency, 0.5)}

	_, err := Analyze(items, conns, Options{})
	require.Error(t, err)
	var iee *InvalidEdgeError
	assert.ErrorAs(t, err, &iee)
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	res, err := Analyze(nil, nil, Options{})
	require.NoError(t, err)
	assert.False(t, res.HasCycles)
	assert.Equal(t, 100, res.HealthScore)
	assert.NotNil(t, res.CriticalPath)
	assert.NotNil(t, res.Warnings)
}
