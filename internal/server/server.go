package server

import (
	"context"
	"log/slog"

	"github.com/trellisplan/trellis/internal/engine"
	"github.com/trellisplan/trellis/internal/events"
	"github.com/trellisplan/trellis/internal/store"
)

// GraphServer serves the dependency graph API: work item and connection
// CRUD, on-demand analysis, cycle-fix application, and suggestion
// validation. Analysis is stateless; every request re-reads a snapshot.
type GraphServer struct {
	store     store.Store
	publisher events.Publisher

	// engineOpts tunes analysis runs; zero values select engine defaults.
	engineOpts engine.Options

	// minConfidence is the suggestion acceptance floor.
	minConfidence float64
}

// NewGraphServer returns a new GraphServer backed by the given store and publisher.
func NewGraphServer(s store.Store, p events.Publisher, opts engine.Options, minConfidence float64) *GraphServer {
	return &GraphServer{
		store:         s,
		publisher:     p,
		engineOpts:    opts,
		minConfidence: minConfidence,
	}
}

// publish sends an event to the bus. Publishing is best-effort; failures
// are logged but never block the caller.
func (s *GraphServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
