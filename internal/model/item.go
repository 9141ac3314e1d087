package model

import "time"

// ItemType categorizes a work item within the product lifecycle.
type ItemType string

const (
	TypeEpic        ItemType = "epic"
	TypeFeature     ItemType = "feature"
	TypeEnhancement ItemType = "enhancement"
	TypeBug         ItemType = "bug"
	TypeConcept     ItemType = "concept"
	TypeTask        ItemType = "task"
)

// String returns the string representation of the item type.
func (t ItemType) String() string {
	return string(t)
}

// IsValid checks whether the item type is a known value.
func (t ItemType) IsValid() bool {
	switch t {
	case TypeEpic, TypeFeature, TypeEnhancement, TypeBug, TypeConcept, TypeTask:
		return true
	}
	return false
}

// ItemStatus represents the lifecycle phase of a work item.
type ItemStatus string

const (
	StatusIdeation  ItemStatus = "ideation"
	StatusDiscovery ItemStatus = "discovery"
	StatusDesign    ItemStatus = "design"
	StatusBuild     ItemStatus = "build"
	StatusLaunch    ItemStatus = "launch"
	StatusDone      ItemStatus = "done"
)

// String returns the string representation of the status.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusIdeation, StatusDiscovery, StatusDesign, StatusBuild, StatusLaunch, StatusDone:
		return true
	}
	return false
}

// WorkItem is the core work-item record. The analysis engine treats it as
// read-only input; creation and editing belong to the CRUD surface.
type WorkItem struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     ItemType   `json:"type"`
	Status   ItemStatus `json:"status"`
	Priority int        `json:"priority"`

	// EstimatedDays is the estimated duration in days. Zero means no
	// estimate; the scheduler substitutes a one-day default.
	EstimatedDays float64 `json:"estimated_days,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DurationDays returns the scheduling duration for the item, substituting
// the one-day default when no estimate is set.
func (w *WorkItem) DurationDays() float64 {
	if w.EstimatedDays > 0 {
		return w.EstimatedDays
	}
	return 1
}

// HasEstimate reports whether the item carries an explicit duration estimate.
func (w *WorkItem) HasEstimate() bool {
	return w.EstimatedDays > 0
}
