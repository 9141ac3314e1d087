// Package engine implements the dependency graph analysis engine: graph
// construction, cycle detection, critical-path scheduling, health scoring,
// and validation of externally proposed connections.
//
// The engine is stateless and pure: every analysis builds a fresh graph from
// a snapshot of work items and connections, and identical input yields
// identical output.
package engine

import (
	"fmt"

	"github.com/trellisplan/trellis/internal/model"
)

// InvalidEdgeError reports a connection that cannot be represented in the
// graph: a self-loop, an unknown type, or a dangling endpoint.
type InvalidEdgeError struct {
	ConnectionID string
	Reason       string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid connection %s: %s", e.ConnectionID, e.Reason)
}

// Graph is an adjacency representation of work items and their connections.
// The hard adjacency is restricted to ordering edges (dependency, blocks)
// and drives cycle detection and scheduling; the full adjacency covers all
// connection types and drives connectivity metrics.
//
// Iteration order follows input order throughout so that repeated analysis
// of the same snapshot is byte-identical.
type Graph struct {
	order   []string
	items   map[string]*model.WorkItem
	hardOut map[string][]*model.Connection
	hardIn  map[string][]*model.Connection
	fullDeg map[string]int
	hard    []*model.Connection
	full    []*model.Connection
}

// BuildGraph constructs a Graph from a snapshot of work items and
// connections. Connections with status "removed" are excluded from the
// adjacency but still validated. Construction is pure: the inputs are not
// modified.
func BuildGraph(items []*model.WorkItem, conns []*model.Connection) (*Graph, error) {
	g := &Graph{
		items:   make(map[string]*model.WorkItem, len(items)),
		hardOut: make(map[string][]*model.Connection),
		hardIn:  make(map[string][]*model.Connection),
		fullDeg: make(map[string]int),
	}

	for _, it := range items {
		if _, ok := g.items[it.ID]; ok {
			continue
		}
		g.items[it.ID] = it
		g.order = append(g.order, it.ID)
	}

	for _, c := range conns {
		if !c.Type.IsValid() {
			return nil, &InvalidEdgeError{ConnectionID: c.ID, Reason: fmt.Sprintf("unknown connection type %q", c.Type)}
		}
		if c.SourceID == c.TargetID {
			return nil, &InvalidEdgeError{ConnectionID: c.ID, Reason: "self-loop"}
		}
		if _, ok := g.items[c.SourceID]; !ok {
			return nil, &InvalidEdgeError{ConnectionID: c.ID, Reason: fmt.Sprintf("source item %q not in snapshot", c.SourceID)}
		}
		if _, ok := g.items[c.TargetID]; !ok {
			return nil, &InvalidEdgeError{ConnectionID: c.ID, Reason: fmt.Sprintf("target item %q not in snapshot", c.TargetID)}
		}
		if !c.IsActive() {
			continue
		}

		g.full = append(g.full, c)
		g.fullDeg[c.SourceID]++
		g.fullDeg[c.TargetID]++

		if c.Type.IsHardOrdering() {
			g.hard = append(g.hard, c)
			g.hardOut[c.SourceID] = append(g.hardOut[c.SourceID], c)
			g.hardIn[c.TargetID] = append(g.hardIn[c.TargetID], c)
		}
	}

	return g, nil
}

// Order returns the work-item IDs in input order.
func (g *Graph) Order() []string { return g.order }

// Item returns the work item with the given ID, or nil.
func (g *Graph) Item(id string) *model.WorkItem { return g.items[id] }

// Len returns the number of work items in the graph.
func (g *Graph) Len() int { return len(g.order) }

// HardOut returns the outgoing hard-ordering edges of an item.
func (g *Graph) HardOut(id string) []*model.Connection { return g.hardOut[id] }

// HardIn returns the incoming hard-ordering edges of an item.
func (g *Graph) HardIn(id string) []*model.Connection { return g.hardIn[id] }

// HardEdges returns all active hard-ordering edges in input order.
func (g *Graph) HardEdges() []*model.Connection { return g.hard }

// FullEdges returns all active edges of any type in input order.
func (g *Graph) FullEdges() []*model.Connection { return g.full }

// HardDegree returns the hard-ordering in-degree and out-degree of an item.
func (g *Graph) HardDegree(id string) (in, out int) {
	return len(g.hardIn[id]), len(g.hardOut[id])
}

// FullDegree returns the combined degree of an item over all edge types.
func (g *Graph) FullDegree(id string) int { return g.fullDeg[id] }

// OrphanIDs returns, in input order, the items with no connections of any
// type. Orphans count against the health score and trigger a warning.
func (g *Graph) OrphanIDs() []string {
	var orphans []string
	for _, id := range g.order {
		if g.fullDeg[id] == 0 {
			orphans = append(orphans, id)
		}
	}
	return orphans
}
