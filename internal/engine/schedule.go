package engine

import (
	"errors"
	"sort"
)

// ErrGraphHasCycles is returned when the scheduler is handed a graph whose
// hard-ordering subgraph is not acyclic. Callers gate on DetectCycles first,
// so hitting this indicates a programming error upstream.
var ErrGraphHasCycles = errors.New("cannot compute schedule: graph contains cycles")

// Timing holds the forward/backward pass results for one work item.
// All values are in days from project start.
type Timing struct {
	EarliestStart  float64
	EarliestFinish float64
	LatestStart    float64
	LatestFinish   float64
	Slack          float64
}

// ScheduleResult is the output of a critical-path computation.
type ScheduleResult struct {
	Timings             map[string]*Timing
	CriticalPath        []string
	ProjectDurationDays float64

	// DefaultedIDs lists items scheduled with the one-day default because
	// they carry no estimate, in input order.
	DefaultedIDs []string
}

const slackEpsilon = 1e-9

// ComputeCriticalPath runs the standard critical path method over the
// hard-ordering subgraph: Kahn topological order, a forward pass for
// earliest start/finish, a backward pass for latest start/finish, then
// slack. Zero-slack nodes form the critical path, ordered by earliest start.
//
// Orphan items (no hard edges) sit on their own trivial path starting at
// zero; they contribute to project duration but not to the critical path.
func ComputeCriticalPath(g *Graph) (*ScheduleResult, error) {
	topo, err := topoSort(g)
	if err != nil {
		return nil, err
	}

	res := &ScheduleResult{
		Timings: make(map[string]*Timing, g.Len()),
	}
	for _, id := range g.Order() {
		res.Timings[id] = &Timing{}
		if it := g.Item(id); it != nil && !it.HasEstimate() {
			res.DefaultedIDs = append(res.DefaultedIDs, id)
		}
	}

	// Forward pass: earliest start is the max earliest finish across
	// predecessors, zero at roots.
	for _, id := range topo {
		t := res.Timings[id]
		for _, e := range g.HardIn(id) {
			if pf := res.Timings[e.SourceID].EarliestFinish; pf > t.EarliestStart {
				t.EarliestStart = pf
			}
		}
		t.EarliestFinish = t.EarliestStart + g.Item(id).DurationDays()
		if t.EarliestFinish > res.ProjectDurationDays {
			res.ProjectDurationDays = t.EarliestFinish
		}
	}

	// Backward pass: latest finish is the min latest start across
	// successors, project duration at sinks. Orphans finish on their own
	// trivial path instead of being pushed to the project end.
	for i := len(topo) - 1; i >= 0; i-- {
		id := topo[i]
		t := res.Timings[id]
		in, out := g.HardDegree(id)
		switch {
		case in == 0 && out == 0:
			t.LatestFinish = t.EarliestFinish
		case out == 0:
			t.LatestFinish = res.ProjectDurationDays
		default:
			first := true
			for _, e := range g.HardOut(id) {
				ls := res.Timings[e.TargetID].LatestStart
				if first || ls < t.LatestFinish {
					t.LatestFinish = ls
					first = false
				}
			}
		}
		t.LatestStart = t.LatestFinish - g.Item(id).DurationDays()
		t.Slack = t.LatestStart - t.EarliestStart
	}

	// Critical path: connected zero-slack chain, root to sink.
	for _, id := range g.Order() {
		in, out := g.HardDegree(id)
		if in == 0 && out == 0 {
			continue
		}
		if res.Timings[id].Slack < slackEpsilon {
			res.CriticalPath = append(res.CriticalPath, id)
		}
	}
	sort.SliceStable(res.CriticalPath, func(i, j int) bool {
		return res.Timings[res.CriticalPath[i]].EarliestStart < res.Timings[res.CriticalPath[j]].EarliestStart
	})

	return res, nil
}

// OnCriticalPath reports whether the item is a zero-slack member of the
// schedule, excluding orphans.
func (r *ScheduleResult) OnCriticalPath(id string) bool {
	for _, cp := range r.CriticalPath {
		if cp == id {
			return true
		}
	}
	return false
}

// topoSort orders the graph's items with Kahn's algorithm over hard edges.
// Any leftover node means a cycle survived the upstream gate.
func topoSort(g *Graph) ([]string, error) {
	indeg := make(map[string]int, g.Len())
	var queue []string
	for _, id := range g.Order() {
		in, _ := g.HardDegree(id)
		indeg[id] = in
		if in == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, g.Len())
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, e := range g.HardOut(id) {
			indeg[e.TargetID]--
			if indeg[e.TargetID] == 0 {
				queue = append(queue, e.TargetID)
			}
		}
	}

	if len(order) != g.Len() {
		return nil, ErrGraphHasCycles
	}
	return order, nil
}
