package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/trellisplan/trellis/internal/events"
	"github.com/trellisplan/trellis/internal/idgen"
	"github.com/trellisplan/trellis/internal/model"
)

type createConnectionInput struct {
	SourceID  string         `json:"source_id"`
	TargetID  string         `json:"target_id"`
	Type      string         `json:"type"`
	Strength  *float64       `json:"strength"`
	Reason    string         `json:"reason"`
	CreatedBy string         `json:"created_by"`
}

type applyFixInput struct {
	Action    string `json:"action"`
	NewType   string `json:"new_type"`
	AppliedBy string `json:"applied_by"`
}

// handleCreateConnection handles POST /v1/connections.
func (s *GraphServer) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	var in createConnectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.NewConnectionID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	// Omitted strength gets the neutral default.
	strength := 0.5
	if in.Strength != nil {
		strength = *in.Strength
	}

	conn := &model.Connection{
		ID:        id,
		SourceID:  in.SourceID,
		TargetID:  in.TargetID,
		Type:      model.ConnectionType(in.Type),
		Strength:  strength,
		Status:    model.ConnActive,
		Reason:    in.Reason,
		CreatedAt: time.Now().UTC(),
		CreatedBy: in.CreatedBy,
	}

	if err := model.ValidateConnection(conn); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Both endpoints must exist before the edge is recorded.
	src, err := s.store.GetWorkItem(r.Context(), conn.SourceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve source item")
		return
	}
	if src == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("source item %q not found", conn.SourceID))
		return
	}
	tgt, err := s.store.GetWorkItem(r.Context(), conn.TargetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve target item")
		return
	}
	if tgt == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("target item %q not found", conn.TargetID))
		return
	}

	dup, err := s.activeDuplicateExists(r, conn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check existing connections")
		return
	}
	if dup {
		writeError(w, http.StatusConflict, fmt.Sprintf(
			"an active %s connection from %s to %s already exists",
			conn.Type, conn.SourceID, conn.TargetID))
		return
	}

	if err := s.store.CreateConnection(r.Context(), conn); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create connection")
		return
	}

	s.publish(r.Context(), events.TopicConnectionCreated, events.ConnectionCreated{Connection: conn})

	writeJSON(w, http.StatusCreated, conn)
}

// activeDuplicateExists reports whether an active connection with the same
// (source, target, type) triple is already recorded. The partial unique
// index enforces the same rule in the database.
func (s *GraphServer) activeDuplicateExists(r *http.Request, conn *model.Connection) (bool, error) {
	existing, err := s.store.ListConnections(r.Context(), model.ConnectionFilter{
		ItemID: conn.SourceID,
		Type:   []model.ConnectionType{conn.Type},
		Status: []model.ConnectionStatus{model.ConnActive},
	})
	if err != nil {
		return false, err
	}
	for _, c := range existing {
		if c.SourceID == conn.SourceID && c.TargetID == conn.TargetID {
			return true, nil
		}
	}
	return false, nil
}

// handleListConnections handles GET /v1/connections.
func (s *GraphServer) handleListConnections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ConnectionFilter{
		ItemID: q.Get("item"),
	}

	if v := q.Get("type"); v != "" {
		for _, t := range strings.Split(v, ",") {
			filter.Type = append(filter.Type, model.ConnectionType(t))
		}
	}
	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.ConnectionStatus(st))
		}
	} else {
		// Removed connections are audit records; hide them unless asked for.
		filter.Status = []model.ConnectionStatus{model.ConnActive}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	conns, err := s.store.ListConnections(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list connections")
		return
	}

	if conns == nil {
		conns = []*model.Connection{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"connections": conns,
		"total":       len(conns),
	})
}

// handleGetConnection handles GET /v1/connections/{id}.
func (s *GraphServer) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	conn, err := s.store.GetConnection(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

// handleRemoveConnection handles DELETE /v1/connections/{id}. Removal is a
// soft state change; the row survives for audit.
func (s *GraphServer) handleRemoveConnection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	conn, err := s.store.GetConnection(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}

	if err := s.store.RemoveConnection(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove connection")
		return
	}

	s.publish(r.Context(), events.TopicConnectionRemoved, events.ConnectionRemoved{ConnectionID: id})

	w.WriteHeader(http.StatusNoContent)
}

// handleApplyFix handles POST /v1/connections/{id}/fix. It applies one
// human-approved cycle fix to the named connection: remove it, reverse its
// direction, or downgrade its type to a non-ordering one.
func (s *GraphServer) handleApplyFix(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in applyFixInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	action := model.FixAction(in.Action)
	if !action.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown fix action %q", in.Action))
		return
	}

	conn, err := s.store.GetConnection(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	if !conn.IsActive() {
		writeError(w, http.StatusConflict, "connection is not active")
		return
	}

	var newType model.ConnectionType
	switch action {
	case model.FixRemoveConnection:
		if err := s.store.RemoveConnection(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to remove connection")
			return
		}

	case model.FixReverseConnection:
		conn.SourceID, conn.TargetID = conn.TargetID, conn.SourceID
		if err := s.store.UpdateConnection(r.Context(), conn); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to reverse connection")
			return
		}

	case model.FixChangeType:
		// Default to the weakest relationship when no replacement is named.
		newType = model.ConnRelatesTo
		if in.NewType != "" {
			newType = model.ConnectionType(in.NewType)
		}
		if !newType.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown connection type %q", in.NewType))
			return
		}
		if newType.IsHardOrdering() {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("new type %q still imposes ordering and cannot break a cycle", newType))
			return
		}
		conn.Type = newType
		if err := s.store.UpdateConnection(r.Context(), conn); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to change connection type")
			return
		}
	}

	s.publish(r.Context(), events.TopicFixApplied, events.FixApplied{
		ConnectionID: id,
		Action:       action,
		NewType:      string(newType),
		AppliedBy:    in.AppliedBy,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"connection_id": id,
		"action":        action,
		"applied":       true,
	})
}
