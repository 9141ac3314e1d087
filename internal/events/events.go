package events

import (
	"context"

	"github.com/trellisplan/trellis/internal/model"
)

// Event topic constants
const (
	TopicItemCreated = "trellis.item.created"
	TopicItemUpdated = "trellis.item.updated"
	TopicItemDeleted = "trellis.item.deleted"

	TopicConnectionCreated = "trellis.connection.created"
	TopicConnectionRemoved = "trellis.connection.removed"

	// Fix application and suggestion validation are the two points where
	// analysis output feeds back into the graph.
	TopicFixApplied           = "trellis.fix.applied"
	TopicSuggestionsValidated = "trellis.suggestions.validated"
)

// Event types

type ItemCreated struct {
	Item *model.WorkItem `json:"item"`
}

type ItemUpdated struct {
	Item    *model.WorkItem `json:"item"`
	Changes map[string]any  `json:"changes"` // field name -> new value
}

type ItemDeleted struct {
	ItemID string `json:"item_id"`
}

type ConnectionCreated struct {
	Connection *model.Connection `json:"connection"`
}

type ConnectionRemoved struct {
	ConnectionID string `json:"connection_id"`
}

type FixApplied struct {
	ConnectionID string          `json:"connection_id"`
	Action       model.FixAction `json:"action"`
	NewType      string          `json:"new_type,omitempty"`
	AppliedBy    string          `json:"applied_by,omitempty"`
}

type SuggestionsValidated struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Publisher is the interface for publishing events to a message bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
