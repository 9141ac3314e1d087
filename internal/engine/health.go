package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Health score penalties. The weightings are a documented baseline, open
// to recalibration as real project data accumulates.
const (
	cyclePenalty          = 40
	bottleneckPenalty     = 5
	bottleneckPenaltyCap  = 25
	orphanPenaltyCap      = 15
	bottleneckWarnAbove   = 3
	bottleneckFanOutFloor = 3
)

// HealthResult summarizes graph health as a single 0-100 score plus the
// bottleneck list and human-readable warnings.
type HealthResult struct {
	Score       int
	Bottlenecks []string
	Warnings    []string

	// Risk maps item ID to its 0-100 risk score.
	Risk map[string]float64
}

// ScoreHealth combines cycle and schedule results with raw connectivity
// stats. schedule may be nil when cycles made scheduling impossible.
func ScoreHealth(cycles *CycleResult, schedule *ScheduleResult, g *Graph) *HealthResult {
	res := &HealthResult{
		Risk: make(map[string]float64, g.Len()),
	}

	res.Bottlenecks = findBottlenecks(g, schedule)
	orphans := g.OrphanIDs()

	for _, id := range g.Order() {
		res.Risk[id] = riskScore(g, schedule, id)
	}

	score := 100
	if cycles.HasCycles {
		score -= cyclePenalty
	}
	score -= min(bottleneckPenaltyCap, bottleneckPenalty*len(res.Bottlenecks))
	score -= min(orphanPenaltyCap, len(orphans))
	if score < 0 {
		score = 0
	}
	res.Score = score

	if cycles.HasCycles {
		res.Warnings = append(res.Warnings, "cannot compute schedule: unresolved cycles")
	}
	if cycles.GuardExceeded {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("cycle enumeration stopped at %d cycles; the list may be incomplete", cycles.MaxCycles))
	}
	if n := len(res.Bottlenecks); n > bottleneckWarnAbove {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d bottleneck items concentrate the dependency load", n))
	}
	if len(orphans) > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d items have no connections: %s", len(orphans), strings.Join(orphans, ", ")))
	}
	if schedule != nil {
		var defaulted []string
		for _, id := range schedule.DefaultedIDs {
			if schedule.OnCriticalPath(id) {
				defaulted = append(defaulted, id)
			}
		}
		if len(defaulted) > 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("critical path relies on default 1-day estimates for: %s", strings.Join(defaulted, ", ")))
		}
	}

	return res
}

// findBottlenecks returns items whose combined hard degree is in the top
// decile, or that sit on the critical path with fan-out of three or more.
// The list is ordered by degree descending, then input order.
func findBottlenecks(g *Graph, schedule *ScheduleResult) []string {
	n := g.Len()
	if n == 0 {
		return nil
	}

	combined := make([]int, 0, n)
	for _, id := range g.Order() {
		in, out := g.HardDegree(id)
		combined = append(combined, in+out)
	}

	sorted := append([]int(nil), combined...)
	sort.Ints(sorted)
	idx := int(math.Ceil(0.9*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	threshold := sorted[idx]

	var picks []string
	seen := make(map[string]bool)
	for i, id := range g.Order() {
		deg := combined[i]
		topDecile := deg > 0 && deg >= threshold
		zeroSlackFanOut := false
		if schedule != nil {
			if t, ok := schedule.Timings[id]; ok {
				_, out := g.HardDegree(id)
				zeroSlackFanOut = t.Slack < slackEpsilon && out >= bottleneckFanOutFloor
			}
		}
		if (topDecile || zeroSlackFanOut) && !seen[id] {
			seen[id] = true
			picks = append(picks, id)
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		ii, io := g.HardDegree(picks[i])
		ji, jo := g.HardDegree(picks[j])
		return ii+io > ji+jo
	})
	return picks
}

// riskScore computes (in+out) * (1 - slack/max(1, projectDuration)),
// clamped to [0, 100]. Without a schedule the slack term drops out and risk
// reduces to the raw degree.
func riskScore(g *Graph, schedule *ScheduleResult, id string) float64 {
	in, out := g.HardDegree(id)
	degree := float64(in + out)

	factor := 1.0
	if schedule != nil {
		if t, ok := schedule.Timings[id]; ok {
			factor = 1 - t.Slack/math.Max(1, schedule.ProjectDurationDays)
		}
	}

	risk := degree * factor
	if risk < 0 {
		return 0
	}
	if risk > 100 {
		return 100
	}
	return risk
}
