package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/trellisplan/trellis/internal/events"
	"github.com/trellisplan/trellis/internal/idgen"
	"github.com/trellisplan/trellis/internal/model"
)

type createItemInput struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	Priority      int     `json:"priority"`
	EstimatedDays float64 `json:"estimated_days"`
	CreatedBy     string  `json:"created_by"`
}

type updateItemInput struct {
	Name          *string  `json:"name"`
	Type          *string  `json:"type"`
	Status        *string  `json:"status"`
	Priority      *int     `json:"priority"`
	EstimatedDays *float64 `json:"estimated_days"`
}

// handleCreateItem handles POST /v1/items.
func (s *GraphServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in createItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.NewItemID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	// New items without an explicit status start at the top of the funnel.
	if in.Status == "" {
		in.Status = string(model.StatusIdeation)
	}

	now := time.Now().UTC()
	item := &model.WorkItem{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Type:          model.ItemType(in.Type),
		Status:        model.ItemStatus(in.Status),
		Priority:      in.Priority,
		EstimatedDays: in.EstimatedDays,
		CreatedAt:     now,
		CreatedBy:     in.CreatedBy,
		UpdatedAt:     now,
	}

	if err := model.ValidateWorkItem(item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateWorkItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create work item")
		return
	}

	s.publish(r.Context(), events.TopicItemCreated, events.ItemCreated{Item: item})

	writeJSON(w, http.StatusCreated, item)
}

// handleListItems handles GET /v1/items.
func (s *GraphServer) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ItemFilter{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}

	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.ItemStatus(st))
		}
	}
	if v := q.Get("type"); v != "" {
		for _, t := range strings.Split(v, ",") {
			filter.Type = append(filter.Type, model.ItemType(t))
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	items, total, err := s.store.ListWorkItems(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list work items")
		return
	}

	// Ensure items is never null in JSON output.
	if items == nil {
		items = []*model.WorkItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

// handleGetItem handles GET /v1/items/{id}.
func (s *GraphServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	item, err := s.store.GetWorkItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get work item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "work item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleUpdateItem handles PATCH /v1/items/{id}. Only fields present in the
// body are changed.
func (s *GraphServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, changes, err := s.updateItem(r.Context(), id, in)
	if err != nil {
		var ie inputError
		switch {
		case errors.As(err, &ie):
			writeError(w, http.StatusBadRequest, ie.Error())
		case errors.Is(err, errItemNotFound):
			writeError(w, http.StatusNotFound, "work item not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.publish(r.Context(), events.TopicItemUpdated, events.ItemUpdated{Item: item, Changes: changes})

	writeJSON(w, http.StatusOK, item)
}

var errItemNotFound = errors.New("work item not found")

func (s *GraphServer) updateItem(ctx context.Context, id string, in updateItemInput) (*model.WorkItem, map[string]any, error) {
	item, err := s.store.GetWorkItem(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, errItemNotFound
	}

	changes := make(map[string]any)
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
		changes["name"] = item.Name
	}
	if in.Type != nil {
		item.Type = model.ItemType(*in.Type)
		changes["type"] = item.Type
	}
	if in.Status != nil {
		item.Status = model.ItemStatus(*in.Status)
		changes["status"] = item.Status
	}
	if in.Priority != nil {
		item.Priority = *in.Priority
		changes["priority"] = item.Priority
	}
	if in.EstimatedDays != nil {
		item.EstimatedDays = *in.EstimatedDays
		changes["estimated_days"] = item.EstimatedDays
	}

	if err := model.ValidateWorkItem(item); err != nil {
		return nil, nil, inputError(err.Error())
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateWorkItem(ctx, item); err != nil {
		return nil, nil, err
	}
	return item, changes, nil
}

// handleDeleteItem handles DELETE /v1/items/{id}. Connections referencing
// the item are deleted with it.
func (s *GraphServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	item, err := s.store.GetWorkItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get work item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "work item not found")
		return
	}

	if err := s.store.DeleteWorkItem(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete work item")
		return
	}

	s.publish(r.Context(), events.TopicItemDeleted, events.ItemDeleted{ItemID: id})

	w.WriteHeader(http.StatusNoContent)
}
