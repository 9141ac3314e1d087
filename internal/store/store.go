package store

import (
	"context"

	"github.com/trellisplan/trellis/internal/model"
)

// Store defines the persistence interface for work items and connections.
// Analysis results are never stored; the engine recomputes them from a
// snapshot on every request.
type Store interface {
	// Work item CRUD
	CreateWorkItem(ctx context.Context, item *model.WorkItem) error
	GetWorkItem(ctx context.Context, id string) (*model.WorkItem, error)
	ListWorkItems(ctx context.Context, filter model.ItemFilter) ([]*model.WorkItem, int, error) // returns items, total count, error
	UpdateWorkItem(ctx context.Context, item *model.WorkItem) error
	DeleteWorkItem(ctx context.Context, id string) error

	// Connections
	CreateConnection(ctx context.Context, conn *model.Connection) error
	GetConnection(ctx context.Context, id string) (*model.Connection, error)
	ListConnections(ctx context.Context, filter model.ConnectionFilter) ([]*model.Connection, error)
	UpdateConnection(ctx context.Context, conn *model.Connection) error
	RemoveConnection(ctx context.Context, id string) error // marks status=removed

	// Snapshot returns all work items and all active connections in
	// stable creation order, for one analysis run.
	Snapshot(ctx context.Context) ([]*model.WorkItem, []*model.Connection, error)

	// Lifecycle
	Close() error
}
