// Package client provides a transport-agnostic interface for the trellis
// service and an HTTP/JSON implementation that talks to the trellis REST API.
package client

import (
	"context"

	"github.com/trellisplan/trellis/internal/model"
)

// GraphClient is the interface that all trellis CLI commands use to
// communicate with the graph server. It is implemented by HTTPClient.
type GraphClient interface {
	// Work item CRUD
	CreateItem(ctx context.Context, req *CreateItemRequest) (*model.WorkItem, error)
	GetItem(ctx context.Context, id string) (*model.WorkItem, error)
	ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error)
	UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*model.WorkItem, error)
	DeleteItem(ctx context.Context, id string) error

	// Connections
	CreateConnection(ctx context.Context, req *CreateConnectionRequest) (*model.Connection, error)
	GetConnection(ctx context.Context, id string) (*model.Connection, error)
	ListConnections(ctx context.Context, req *ListConnectionsRequest) (*ListConnectionsResponse, error)
	RemoveConnection(ctx context.Context, id string) error
	ApplyFix(ctx context.Context, connectionID string, req *ApplyFixRequest) error

	// Analysis
	Analyze(ctx context.Context) (*model.AnalysisResult, error)
	AnalyzeDocument(ctx context.Context, doc *AnalyzeDocumentRequest) (*model.AnalysisResult, error)
	Graph(ctx context.Context) (*model.GraphResponse, error)

	// Suggestions
	ValidateSuggestions(ctx context.Context, req *ValidateSuggestionsRequest) (*ValidateSuggestionsResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateItemRequest holds parameters for creating a work item.
type CreateItemRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Status        string  `json:"status,omitempty"`
	Priority      int     `json:"priority"`
	EstimatedDays float64 `json:"estimated_days,omitempty"`
	CreatedBy     string  `json:"created_by,omitempty"`
}

// ListItemsRequest holds parameters for listing work items.
type ListItemsRequest struct {
	Status []string
	Type   []string
	Search string
	Sort   string
	Limit  int
	Offset int
}

// ListItemsResponse is the response from ListItems.
type ListItemsResponse struct {
	Items []*model.WorkItem `json:"items"`
	Total int               `json:"total"`
}

// UpdateItemRequest holds optional parameters for updating a work item.
// Nil pointer fields mean "don't change".
type UpdateItemRequest struct {
	Name          *string  `json:"name,omitempty"`
	Type          *string  `json:"type,omitempty"`
	Status        *string  `json:"status,omitempty"`
	Priority      *int     `json:"priority,omitempty"`
	EstimatedDays *float64 `json:"estimated_days,omitempty"`
}

// CreateConnectionRequest holds parameters for creating a connection.
type CreateConnectionRequest struct {
	SourceID  string   `json:"source_id"`
	TargetID  string   `json:"target_id"`
	Type      string   `json:"type"`
	Strength  *float64 `json:"strength,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	CreatedBy string   `json:"created_by,omitempty"`
}

// ListConnectionsRequest holds parameters for listing connections.
type ListConnectionsRequest struct {
	ItemID string
	Type   []string
	Status []string
	Limit  int
}

// ListConnectionsResponse is the response from ListConnections.
type ListConnectionsResponse struct {
	Connections []*model.Connection `json:"connections"`
	Total       int                 `json:"total"`
}

// ApplyFixRequest holds parameters for applying a cycle fix to a connection.
type ApplyFixRequest struct {
	Action    string `json:"action"`
	NewType   string `json:"new_type,omitempty"`
	AppliedBy string `json:"applied_by,omitempty"`
}

// AnalyzeDocumentRequest is a self-contained graph document for what-if analysis.
type AnalyzeDocumentRequest struct {
	WorkItems   []*model.WorkItem   `json:"work_items"`
	Connections []*model.Connection `json:"connections"`
}

// ValidateSuggestionsRequest holds candidate connections for validation.
type ValidateSuggestionsRequest struct {
	Suggestions   []model.SuggestedConnection `json:"suggestions"`
	MinConfidence float64                     `json:"min_confidence,omitempty"`
}

// ValidateSuggestionsResponse is the response from ValidateSuggestions.
type ValidateSuggestionsResponse struct {
	Accepted []model.ValidatedSuggestion `json:"accepted"`
	Rejected []model.RejectedSuggestion  `json:"rejected"`
}
