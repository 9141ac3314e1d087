package model

// CycleSeverity ranks how disruptive a dependency cycle is.
type CycleSeverity string

const (
	SeverityLow    CycleSeverity = "low"
	SeverityMedium CycleSeverity = "medium"
	SeverityHigh   CycleSeverity = "high"
)

// FixAction is the kind of change proposed to break a cycle.
type FixAction string

const (
	FixRemoveConnection  FixAction = "remove_connection"
	FixReverseConnection FixAction = "reverse_connection"
	FixChangeType        FixAction = "change_type"
)

// IsValid checks whether the fix action is a known value.
func (a FixAction) IsValid() bool {
	switch a {
	case FixRemoveConnection, FixReverseConnection, FixChangeType:
		return true
	}
	return false
}

// CycleFix is a proposed change that would break a cycle.
type CycleFix struct {
	Action       FixAction `json:"action"`
	ConnectionID string    `json:"connection_id"`
	Reason       string    `json:"reason"`
	Impact       string    `json:"impact"`
}

// Cycle is an elementary dependency cycle: an ordered loop of work items
// connected by hard-ordering edges.
type Cycle struct {
	Items          []*WorkItem   `json:"items"`
	ConnectionIDs  []string      `json:"connection_ids"`
	Severity       CycleSeverity `json:"severity"`
	SuggestedFixes []*CycleFix   `json:"suggested_fixes"`
}

// NodeMetrics holds per-item scheduling and connectivity metrics.
type NodeMetrics struct {
	WorkItemID       string  `json:"work_item_id"`
	EarliestStart    float64 `json:"earliest_start"`
	EarliestFinish   float64 `json:"earliest_finish"`
	LatestStart      float64 `json:"latest_start"`
	LatestFinish     float64 `json:"latest_finish"`
	Slack            float64 `json:"slack"`
	IsOnCriticalPath bool    `json:"is_on_critical_path"`
	DependencyCount  int     `json:"dependency_count"` // hard-edge in-degree
	DependentCount   int     `json:"dependent_count"`  // hard-edge out-degree
	RiskScore        float64 `json:"risk_score"`
}

// AnalysisResult is the full output of one analysis run. It is recomputed
// on every request and never persisted.
type AnalysisResult struct {
	HasCycles           bool           `json:"has_cycles"`
	Cycles              []*Cycle       `json:"cycles"`
	CriticalPath        []string       `json:"critical_path"`
	ProjectDurationDays float64        `json:"project_duration_days"`
	Nodes               []*NodeMetrics `json:"nodes"`
	Bottlenecks         []string       `json:"bottlenecks"`
	HealthScore         int            `json:"health_score"`
	Warnings            []string       `json:"warnings"`
}
