package model

// ItemFilter narrows ListWorkItems queries. Zero values mean "no filter".
type ItemFilter struct {
	Status []ItemStatus
	Type   []ItemType
	Search string // substring match against name
	Sort   string // "priority", "-priority", "created_at", "-created_at"
	Limit  int
	Offset int
}

// ConnectionFilter narrows ListConnections queries.
type ConnectionFilter struct {
	ItemID string // match either endpoint
	Type   []ConnectionType
	Status []ConnectionStatus
	Limit  int
}
