package model

import "time"

// ConnectionType categorizes the relationship between two work items.
// The set is closed: unknown types are rejected at validation time.
type ConnectionType string

const (
	ConnDependency ConnectionType = "dependency"
	ConnBlocks     ConnectionType = "blocks"
	ConnComplements ConnectionType = "complements"
	ConnRelatesTo  ConnectionType = "relates_to"
	ConnEnables    ConnectionType = "enables"
	ConnConflicts  ConnectionType = "conflicts"
	ConnDuplicates ConnectionType = "duplicates"
	ConnSupersedes ConnectionType = "supersedes"
)

// String returns the string representation of the connection type.
func (c ConnectionType) String() string {
	return string(c)
}

// IsValid checks whether the connection type is a known value.
func (c ConnectionType) IsValid() bool {
	switch c {
	case ConnDependency, ConnBlocks, ConnComplements, ConnRelatesTo,
		ConnEnables, ConnConflicts, ConnDuplicates, ConnSupersedes:
		return true
	}
	return false
}

// IsHardOrdering reports whether the connection type imposes a
// must-happen-before constraint. Only hard-ordering edges participate in
// cycle detection and critical-path scheduling.
func (c ConnectionType) IsHardOrdering() bool {
	return c == ConnDependency || c == ConnBlocks
}

// ConnectionStatus represents the lifecycle state of a connection.
type ConnectionStatus string

const (
	ConnActive  ConnectionStatus = "active"
	ConnRemoved ConnectionStatus = "removed"
)

// IsValid checks whether the connection status is a known value.
func (s ConnectionStatus) IsValid() bool {
	return s == ConnActive || s == ConnRemoved
}

// Connection represents a directional typed relationship between two work items.
type Connection struct {
	ID       string           `json:"id"`
	SourceID string           `json:"source_id"`
	TargetID string           `json:"target_id"`
	Type     ConnectionType   `json:"type"`
	Strength float64          `json:"strength"`
	Status   ConnectionStatus `json:"status"`
	Reason   string           `json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// IsActive reports whether the connection participates in analysis.
func (c *Connection) IsActive() bool {
	return c.Status == ConnActive
}
