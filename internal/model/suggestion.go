package model

// SuggestedConnection is a candidate edge proposed by an external
// generative collaborator. It must pass validation before it can be shown
// to a human, and is never applied automatically.
type SuggestedConnection struct {
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       ConnectionType `json:"type"`
	Strength   float64        `json:"strength"`
	Confidence float64        `json:"confidence"`
	Reason     string         `json:"reason,omitempty"`
}

// ItemSummary is the minimal work-item view attached to accepted
// suggestions for display.
type ItemSummary struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type ItemType `json:"type"`
}

// ValidatedSuggestion is a candidate that passed validation, enriched with
// endpoint summaries.
type ValidatedSuggestion struct {
	Suggestion SuggestedConnection `json:"suggestion"`
	Source     ItemSummary         `json:"source"`
	Target     ItemSummary         `json:"target"`
}

// RejectedSuggestion records why a candidate was filtered out. Rejections
// are not errors; they are surfaced for audit logging only.
type RejectedSuggestion struct {
	Suggestion SuggestedConnection `json:"suggestion"`
	Reason     string              `json:"reason"`
}
