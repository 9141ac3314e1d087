package engine

import (
	"github.com/trellisplan/trellis/internal/model"
)

// Options tune one analysis run. Zero values select the documented defaults.
type Options struct {
	// MaxCycles bounds elementary-cycle enumeration (default 100).
	MaxCycles int
}

// Analyze runs the full pipeline over a snapshot: build the graph, detect
// cycles, schedule when acyclic, then score health. The computation is pure
// and synchronous; repeated runs over the same snapshot produce identical
// results.
func Analyze(items []*model.WorkItem, conns []*model.Connection, opts Options) (*model.AnalysisResult, error) {
	g, err := BuildGraph(items, conns)
	if err != nil {
		return nil, err
	}

	cycles := DetectCycles(g, opts.MaxCycles)

	// Scheduling is gated on an acyclic hard subgraph. When cycles exist
	// the scheduling fields stay empty and a warning is carried instead.
	var schedule *ScheduleResult
	if !cycles.HasCycles {
		schedule, err = ComputeCriticalPath(g)
		if err != nil {
			return nil, err
		}
	}

	health := ScoreHealth(cycles, schedule, g)

	res := &model.AnalysisResult{
		HasCycles:    cycles.HasCycles,
		Cycles:       cycles.Cycles,
		CriticalPath: []string{},
		Nodes:        make([]*model.NodeMetrics, 0, g.Len()),
		Bottlenecks:  health.Bottlenecks,
		HealthScore:  health.Score,
		Warnings:     health.Warnings,
	}
	if res.Bottlenecks == nil {
		res.Bottlenecks = []string{}
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	if schedule != nil {
		res.CriticalPath = append(res.CriticalPath, schedule.CriticalPath...)
		res.ProjectDurationDays = schedule.ProjectDurationDays
	}

	for _, id := range g.Order() {
		in, out := g.HardDegree(id)
		nm := &model.NodeMetrics{
			WorkItemID:      id,
			DependencyCount: in,
			DependentCount:  out,
			RiskScore:       health.Risk[id],
		}
		if schedule != nil {
			t := schedule.Timings[id]
			nm.EarliestStart = t.EarliestStart
			nm.EarliestFinish = t.EarliestFinish
			nm.LatestStart = t.LatestStart
			nm.LatestFinish = t.LatestFinish
			nm.Slack = t.Slack
			nm.IsOnCriticalPath = schedule.OnCriticalPath(id)
		}
		res.Nodes = append(res.Nodes, nm)
	}

	return res, nil
}
