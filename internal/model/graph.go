package model

// GraphEdge represents a connection as a graph edge for visualization.
type GraphEdge struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

// GraphStats holds aggregate counts over the current graph.
type GraphStats struct {
	TotalItems       int `json:"total_items"`
	TotalConnections int `json:"total_connections"`
	HardConnections  int `json:"hard_connections"`
	SoftConnections  int `json:"soft_connections"`
	OrphanItems      int `json:"orphan_items"`
}

// GraphResponse is the response for the graph visualization endpoint.
// Rendering is an external concern; this is a plain nodes/edges view.
type GraphResponse struct {
	Nodes []*WorkItem  `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
	Stats *GraphStats  `json:"stats"`
}
