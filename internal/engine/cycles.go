package engine

import (
	"fmt"
	"sort"

	"github.com/trellisplan/trellis/internal/model"
)

// DefaultMaxCycles bounds elementary-cycle enumeration. Dense pathological
// graphs have combinatorially many cycles; hitting the guard degrades to a
// warning rather than an error.
const DefaultMaxCycles = 100

// CycleResult is the output of cycle detection over the hard-ordering graph.
type CycleResult struct {
	HasCycles     bool
	Cycles        []*model.Cycle
	GuardExceeded bool
	MaxCycles     int
}

// cycleRec is an elementary cycle before conversion to the API shape.
type cycleRec struct {
	itemIDs []string
	edges   []*model.Connection
}

// DetectCycles enumerates elementary cycles in the hard-ordering subgraph.
// maxCycles <= 0 selects DefaultMaxCycles.
func DetectCycles(g *Graph, maxCycles int) *CycleResult {
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}

	recs, exceeded := scanCycles(g.Order(), g.hardOut, maxCycles)

	res := &CycleResult{
		HasCycles:     len(recs) > 0,
		Cycles:        make([]*model.Cycle, 0, len(recs)),
		GuardExceeded: exceeded,
		MaxCycles:     maxCycles,
	}

	for _, rec := range recs {
		cycle := &model.Cycle{
			Items:         make([]*model.WorkItem, 0, len(rec.itemIDs)),
			ConnectionIDs: make([]string, 0, len(rec.edges)),
		}
		for _, id := range rec.itemIDs {
			cycle.Items = append(cycle.Items, g.Item(id))
		}
		for _, e := range rec.edges {
			cycle.ConnectionIDs = append(cycle.ConnectionIDs, e.ID)
		}
		cycle.Severity = classifySeverity(cycle, rec.edges)
		cycle.SuggestedFixes = suggestFixes(g, rec)
		res.Cycles = append(res.Cycles, cycle)
	}

	return res
}

// scanCycles runs a depth-first search over the given adjacency, tracking
// the recursion stack. A back-edge to a node on the stack closes a cycle,
// which is reconstructed by slicing the stack. The closing edge is then
// marked used and the search resumes from siblings, so multiple cycles per
// root are found. Enumeration stops once maxCycles cycles are recorded.
func scanCycles(order []string, out map[string][]*model.Connection, maxCycles int) ([]cycleRec, bool) {
	var (
		recs      []cycleRec
		exceeded  bool
		visited   = make(map[string]bool)
		onStack   = make(map[string]bool)
		stack     []string
		edgeStack []*model.Connection
		usedClose = make(map[string]bool)
	)

	var dfs func(id string)
	dfs = func(id string) {
		if len(recs) >= maxCycles {
			return
		}
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, e := range out[id] {
			if len(recs) >= maxCycles {
				break
			}
			if usedClose[e.ID] {
				continue
			}
			if onStack[e.TargetID] {
				// Back edge: the cycle is the stack slice from the
				// target up to the current node, closed by e.
				start := 0
				for i, sid := range stack {
					if sid == e.TargetID {
						start = i
						break
					}
				}
				rec := cycleRec{
					itemIDs: append([]string(nil), stack[start:]...),
					edges:   append(append([]*model.Connection(nil), edgeStack[start:]...), e),
				}
				recs = append(recs, rec)
				usedClose[e.ID] = true
				if len(recs) >= maxCycles {
					exceeded = true
				}
				continue
			}
			if !visited[e.TargetID] {
				edgeStack = append(edgeStack, e)
				dfs(e.TargetID)
				edgeStack = edgeStack[:len(edgeStack)-1]
			}
		}

		onStack[id] = false
		stack = stack[:len(stack)-1]
	}

	for _, id := range order {
		if !visited[id] {
			dfs(id)
		}
	}

	return recs, exceeded
}

// classifySeverity ranks a cycle: high when it contains a blocks edge or an
// epic/bug item, medium for short cycles, low otherwise.
func classifySeverity(c *model.Cycle, edges []*model.Connection) model.CycleSeverity {
	for _, e := range edges {
		if e.Type == model.ConnBlocks {
			return model.SeverityHigh
		}
	}
	for _, it := range c.Items {
		if it.Type == model.TypeBug || it.Type == model.TypeEpic {
			return model.SeverityHigh
		}
	}
	if len(c.Items) <= 3 {
		return model.SeverityMedium
	}
	return model.SeverityLow
}

// suggestFixes proposes changes that would break the given cycle.
// Removal is always valid and is ordered weakest edge first; reversal is
// proposed only when flipping the edge does not route a new cycle through it.
func suggestFixes(g *Graph, rec cycleRec) []*model.CycleFix {
	removals := append([]*model.Connection(nil), rec.edges...)
	sort.SliceStable(removals, func(i, j int) bool {
		return removals[i].Strength < removals[j].Strength
	})

	fixes := make([]*model.CycleFix, 0, len(rec.edges)*2)
	for _, e := range removals {
		fixes = append(fixes, &model.CycleFix{
			Action:       model.FixRemoveConnection,
			ConnectionID: e.ID,
			Reason: fmt.Sprintf("remove the %s edge from %s to %s to break the loop",
				e.Type, e.SourceID, e.TargetID),
			Impact: fmt.Sprintf("breaks this %d-item cycle; drops 1 ordering constraint (strength %.2f)",
				len(rec.itemIDs), e.Strength),
		})
	}

	for _, e := range rec.edges {
		if !reversalIsSafe(g, e) {
			continue
		}
		fixes = append(fixes, &model.CycleFix{
			Action:       model.FixReverseConnection,
			ConnectionID: e.ID,
			Reason: fmt.Sprintf("reverse the %s edge so %s precedes %s instead",
				e.Type, e.TargetID, e.SourceID),
			Impact: fmt.Sprintf("breaks this %d-item cycle while keeping the relationship", len(rec.itemIDs)),
		})
	}

	return fixes
}

// reversalIsSafe trial-runs cycle detection on the hard edge set with e
// flipped and reports whether any cycle passes through the flipped edge.
func reversalIsSafe(g *Graph, e *model.Connection) bool {
	flipped := *e
	flipped.SourceID, flipped.TargetID = e.TargetID, e.SourceID

	out := make(map[string][]*model.Connection, len(g.hardOut))
	for _, edge := range g.HardEdges() {
		if edge.ID == e.ID {
			out[flipped.SourceID] = append(out[flipped.SourceID], &flipped)
			continue
		}
		out[edge.SourceID] = append(out[edge.SourceID], edge)
	}

	recs, _ := scanCycles(g.Order(), out, DefaultMaxCycles)
	for _, rec := range recs {
		for _, edge := range rec.edges {
			if edge.ID == e.ID {
				return false
			}
		}
	}
	return true
}
