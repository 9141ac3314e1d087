package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trellisplan/trellis/internal/engine"
	"github.com/trellisplan/trellis/internal/model"
)

// analyzeDocumentInput is a self-contained graph document, analyzed without
// touching the store. Used for what-if runs against proposed plans.
type analyzeDocumentInput struct {
	WorkItems   []*model.WorkItem   `json:"work_items"`
	Connections []*model.Connection `json:"connections"`
}

// handleAnalyzeSnapshot handles GET /v1/analysis. It analyzes the current
// persisted graph; nothing is cached or stored.
func (s *GraphServer) handleAnalyzeSnapshot(w http.ResponseWriter, r *http.Request) {
	items, conns, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	res, err := engine.Analyze(items, conns, s.engineOpts)
	if err != nil {
		// The store only hands out active edges with live endpoints, so a
		// build failure here is a data problem, not a client one.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleAnalyzeDocument handles POST /v1/analysis.
func (s *GraphServer) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var in analyzeDocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := engine.Analyze(in.WorkItems, in.Connections, s.engineOpts)
	if err != nil {
		var iee *engine.InvalidEdgeError
		if errors.As(err, &iee) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleGetGraph handles GET /v1/graph. It returns a plain nodes/edges view
// of the active graph plus aggregate stats, for visualization clients.
func (s *GraphServer) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	items, conns, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	resp := buildGraphResponse(items, conns)
	writeJSON(w, http.StatusOK, resp)
}

func buildGraphResponse(items []*model.WorkItem, conns []*model.Connection) *model.GraphResponse {
	resp := &model.GraphResponse{
		Nodes: items,
		Edges: make([]*model.GraphEdge, 0, len(conns)),
		Stats: &model.GraphStats{
			TotalItems:       len(items),
			TotalConnections: len(conns),
		},
	}
	if resp.Nodes == nil {
		resp.Nodes = []*model.WorkItem{}
	}

	connected := make(map[string]bool, len(items))
	for _, c := range conns {
		resp.Edges = append(resp.Edges, &model.GraphEdge{
			ID:       c.ID,
			Source:   c.SourceID,
			Target:   c.TargetID,
			Type:     string(c.Type),
			Strength: c.Strength,
		})
		if c.Type.IsHardOrdering() {
			resp.Stats.HardConnections++
		} else {
			resp.Stats.SoftConnections++
		}
		connected[c.SourceID] = true
		connected[c.TargetID] = true
	}

	for _, it := range items {
		if !connected[it.ID] {
			resp.Stats.OrphanItems++
		}
	}

	return resp
}
