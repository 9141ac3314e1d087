package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/trellisplan/trellis/internal/model"
)

// Source provides the graph data to export. *postgres.Store satisfies it.
type Source interface {
	Snapshot(ctx context.Context) ([]*model.WorkItem, []*model.Connection, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	ItemCount       int       `json:"item_count"`
	ConnectionCount int       `json:"connection_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes all work items and active connections as JSONL to w.
// Records are sorted by ID so repeated exports of an unchanged graph are
// byte-identical apart from the header timestamp. Analysis results are
// never exported; consumers re-run the engine over the raw graph.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	items, conns, err := src.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:         "1",
		Type:            "header",
		Timestamp:       time.Now().UTC(),
		ItemCount:       len(items),
		ConnectionCount: len(conns),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, it := range items {
		if err := enc.Encode(record{Type: "work_item", Data: it}); err != nil {
			return fmt.Errorf("encode work item %s: %w", it.ID, err)
		}
	}

	for _, c := range conns {
		if err := enc.Encode(record{Type: "connection", Data: c}); err != nil {
			return fmt.Errorf("encode connection %s: %w", c.ID, err)
		}
	}

	return nil
}
