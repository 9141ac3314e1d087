package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/trellisplan/trellis/internal/engine"
	"github.com/trellisplan/trellis/internal/events"
	"github.com/trellisplan/trellis/internal/model"
)

// mockStore is an in-memory Store that preserves insertion order, matching
// the creation-order guarantee of the Postgres implementation.
type mockStore struct {
	items     map[string]*model.WorkItem
	itemOrder []string

	conns     map[string]*model.Connection
	connOrder []string
}

func newMockStore() *mockStore {
	return &mockStore{
		items: make(map[string]*model.WorkItem),
		conns: make(map[string]*model.Connection),
	}
}

func (m *mockStore) addItem(it *model.WorkItem) {
	if _, ok := m.items[it.ID]; !ok {
		m.itemOrder = append(m.itemOrder, it.ID)
	}
	m.items[it.ID] = it
}

func (m *mockStore) addConn(c *model.Connection) {
	if _, ok := m.conns[c.ID]; !ok {
		m.connOrder = append(m.connOrder, c.ID)
	}
	m.conns[c.ID] = c
}

func (m *mockStore) CreateWorkItem(_ context.Context, item *model.WorkItem) error {
	m.addItem(item)
	return nil
}

func (m *mockStore) GetWorkItem(_ context.Context, id string) (*model.WorkItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	clone := *it
	return &clone, nil
}

func (m *mockStore) ListWorkItems(_ context.Context, filter model.ItemFilter) ([]*model.WorkItem, int, error) {
	var result []*model.WorkItem
	for _, id := range m.itemOrder {
		it := m.items[id]
		if len(filter.Status) > 0 {
			found := false
			for _, s := range filter.Status {
				if it.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if len(filter.Type) > 0 {
			found := false
			for _, t := range filter.Type {
				if it.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(it.Name), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, it)
	}
	total := len(result)
	if filter.Offset > 0 && filter.Offset < len(result) {
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (m *mockStore) UpdateWorkItem(_ context.Context, item *model.WorkItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockStore) DeleteWorkItem(_ context.Context, id string) error {
	delete(m.items, id)
	for i, iid := range m.itemOrder {
		if iid == id {
			m.itemOrder = append(m.itemOrder[:i], m.itemOrder[i+1:]...)
			break
		}
	}
	var keep []string
	for _, cid := range m.connOrder {
		c := m.conns[cid]
		if c.SourceID == id || c.TargetID == id {
			delete(m.conns, cid)
			continue
		}
		keep = append(keep, cid)
	}
	m.connOrder = keep
	return nil
}

func (m *mockStore) CreateConnection(_ context.Context, conn *model.Connection) error {
	m.addConn(conn)
	return nil
}

func (m *mockStore) GetConnection(_ context.Context, id string) (*model.Connection, error) {
	c, ok := m.conns[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (m *mockStore) ListConnections(_ context.Context, filter model.ConnectionFilter) ([]*model.Connection, error) {
	var result []*model.Connection
	for _, id := range m.connOrder {
		c := m.conns[id]
		if filter.ItemID != "" && c.SourceID != filter.ItemID && c.TargetID != filter.ItemID {
			continue
		}
		if len(filter.Type) > 0 {
			found := false
			for _, t := range filter.Type {
				if c.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if len(filter.Status) > 0 {
			found := false
			for _, s := range filter.Status {
				if c.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, c)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockStore) UpdateConnection(_ context.Context, conn *model.Connection) error {
	m.conns[conn.ID] = conn
	return nil
}

func (m *mockStore) RemoveConnection(_ context.Context, id string) error {
	c, ok := m.conns[id]
	if !ok {
		return nil
	}
	c.Status = model.ConnRemoved
	return nil
}

func (m *mockStore) Snapshot(_ context.Context) ([]*model.WorkItem, []*model.Connection, error) {
	items := make([]*model.WorkItem, 0, len(m.itemOrder))
	for _, id := range m.itemOrder {
		items = append(items, m.items[id])
	}
	conns := make([]*model.Connection, 0, len(m.connOrder))
	for _, id := range m.connOrder {
		if c := m.conns[id]; c.IsActive() {
			conns = append(conns, c)
		}
	}
	return items, conns, nil
}

func (m *mockStore) Close() error { return nil }

// newTestServer returns a fresh server, its mock store, and an HTTP handler.
func newTestServer() (*GraphServer, *mockStore, http.Handler) {
	ms := newMockStore()
	s := NewGraphServer(ms, &events.NoopPublisher{}, engine.Options{}, 0)
	return s, ms, s.NewHTTPHandler("")
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// seedItem puts a minimal valid work item into the mock store.
func seedItem(ms *mockStore, id, name string, typ model.ItemType, days float64) {
	now := time.Now().UTC()
	ms.addItem(&model.WorkItem{
		ID: id, Name: name, Type: typ, Status: model.StatusBuild,
		EstimatedDays: days, CreatedAt: now, UpdatedAt: now,
	})
}

// seedConn puts an active connection into the mock store.
func seedConn(ms *mockStore, id, src, tgt string, typ model.ConnectionType) {
	ms.addConn(&model.Connection{
		ID: id, SourceID: src, TargetID: tgt, Type: typ,
		Strength: 0.5, Status: model.ConnActive, CreatedAt: time.Now().UTC(),
	})
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestHandleCreateItem(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/items", map[string]any{
		"name": "Checkout rework", "type": "feature", "priority": 2, "estimated_days": 3.5,
	})
	requireStatus(t, rec, 201)
	var item model.WorkItem
	decodeJSON(t, rec, &item)
	if !strings.HasPrefix(item.ID, "wi-") {
		t.Fatalf("expected wi- prefixed ID, got %q", item.ID)
	}
	if item.Status != model.StatusIdeation {
		t.Fatalf("expected default status ideation, got %q", item.Status)
	}
	if item.EstimatedDays != 3.5 {
		t.Fatalf("EstimatedDays = %g, want 3.5", item.EstimatedDays)
	}
}

func TestHandleCreateItem_Invalid(t *testing.T) {
	_, _, h := newTestServer()
	for name, body := range map[string]map[string]any{
		"missing name":      {"type": "feature"},
		"bad type":          {"name": "X", "type": "initiative"},
		"priority range":    {"name": "X", "type": "task", "priority": 9},
		"negative estimate": {"name": "X", "type": "task", "estimated_days": -1},
	} {
		rec := doJSON(t, h, "POST", "/v1/items", body)
		if rec.Code != 400 {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestHandleListItems_Filtered(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeBug, 1)
	ms.items["wi-b"].Status = model.StatusLaunch

	rec := doJSON(t, h, "GET", "/v1/items?status=launch", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Items []model.WorkItem `json:"items"`
		Total int              `json:"total"`
	}
	decodeJSON(t, rec, &result)
	if result.Total != 1 || result.Items[0].ID != "wi-b" {
		t.Fatalf("expected just wi-b, got %+v", result)
	}
}

func TestHandleUpdateItem(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 2)

	rec := doJSON(t, h, "PATCH", "/v1/items/wi-a", map[string]any{
		"status": "launch", "priority": 4,
	})
	requireStatus(t, rec, 200)
	var item model.WorkItem
	decodeJSON(t, rec, &item)
	if item.Status != model.StatusLaunch || item.Priority != 4 {
		t.Fatalf("got status=%q priority=%d", item.Status, item.Priority)
	}
	// Untouched fields survive the patch.
	if item.Name != "Alpha" || item.EstimatedDays != 2 {
		t.Fatalf("got name=%q estimate=%g", item.Name, item.EstimatedDays)
	}
}

func TestHandleUpdateItem_InvalidPatch(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 2)

	rec := doJSON(t, h, "PATCH", "/v1/items/wi-a", map[string]any{"status": "parked"})
	requireStatus(t, rec, 400)
}

func TestHandleDeleteItem_CascadesConnections(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeTask, 1)
	seedConn(ms, "cx-1", "wi-a", "wi-b", model.ConnDependency)

	rec := doJSON(t, h, "DELETE", "/v1/items/wi-a", nil)
	requireStatus(t, rec, 204)
	if len(ms.conns) != 0 {
		t.Fatalf("expected connections to go with the item, %d left", len(ms.conns))
	}
}

func TestHandleItemErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"GetItem/NotFound", "GET", "/v1/items/wi-missing", nil, 404},
		{"UpdateItem/NotFound", "PATCH", "/v1/items/wi-missing", map[string]any{"priority": 1}, 404},
		{"DeleteItem/NotFound", "DELETE", "/v1/items/wi-missing", nil, 404},
		{"GetConnection/NotFound", "GET", "/v1/connections/cx-missing", nil, 404},
		{"RemoveConnection/NotFound", "DELETE", "/v1/connections/cx-missing", nil, 404},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, h := newTestServer()
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
		})
	}
}

func TestHandleCreateConnection(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeTask, 1)

	rec := doJSON(t, h, "POST", "/v1/connections", map[string]any{
		"source_id": "wi-a", "target_id": "wi-b", "type": "dependency",
	})
	requireStatus(t, rec, 201)
	var conn model.Connection
	decodeJSON(t, rec, &conn)
	if !strings.HasPrefix(conn.ID, "cx-") {
		t.Fatalf("expected cx- prefixed ID, got %q", conn.ID)
	}
	if conn.Strength != 0.5 {
		t.Fatalf("Strength = %g, want the 0.5 default", conn.Strength)
	}
	if conn.Status != model.ConnActive {
		t.Fatalf("Status = %q, want active", conn.Status)
	}
}

func TestHandleCreateConnection_Rejections(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeTask, 1)
	seedConn(ms, "cx-1", "wi-a", "wi-b", model.ConnDependency)

	for _, tc := range []struct {
		name string
		body map[string]any
		code int
	}{
		{"self loop", map[string]any{"source_id": "wi-a", "target_id": "wi-a", "type": "blocks"}, 400},
		{"unknown type", map[string]any{"source_id": "wi-a", "target_id": "wi-b", "type": "precedes"}, 400},
		{"strength out of range", map[string]any{"source_id": "wi-a", "target_id": "wi-b", "type": "enables", "strength": 1.5}, 400},
		{"missing source item", map[string]any{"source_id": "wi-zz", "target_id": "wi-b", "type": "blocks"}, 400},
		{"duplicate active triple", map[string]any{"source_id": "wi-a", "target_id": "wi-b", "type": "dependency"}, 409},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, "POST", "/v1/connections", tc.body)
			requireStatus(t, rec, tc.code)
		})
	}
}

func TestHandleCreateConnection_RemovedTripleCanBeRecreated(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeTask, 1)
	seedConn(ms, "cx-1", "wi-a", "wi-b", model.ConnDependency)
	ms.conns["cx-1"].Status = model.ConnRemoved

	rec := doJSON(t, h, "POST", "/v1/connections", map[string]any{
		"source_id": "wi-a", "target_id": "wi-b", "type": "dependency",
	})
	requireStatus(t, rec, 201)
}

func TestHandleRemoveConnection_SoftDelete(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeTask, 1)
	seedConn(ms, "cx-1", "wi-a", "wi-b", model.ConnDependency)

	rec := doJSON(t, h, "DELETE", "/v1/connections/cx-1", nil)
	requireStatus(t, rec, 204)

	// The row survives as an audit record.
	if ms.conns["cx-1"].Status != model.ConnRemoved {
		t.Fatalf("Status = %q, want removed", ms.conns["cx-1"].Status)
	}
}

func TestHandleListConnections_HidesRemovedByDefault(t *testing.T) {
	_, ms, h := newTestServer()
	seedItem(ms, "wi-a", "Alpha", model.TypeFeature, 1)
	seedItem(ms, "wi-b", "Beta", model.TypeTask, 1)
	seedConn(ms, "cx-1", "wi-a", "wi-b", model.ConnDependency)
	seedConn(ms, "cx-2", "wi-b", "wi-a", model.ConnRelatesTo)
	ms.conns["cx-2"].Status = model.ConnRemoved

	rec := doJSON(t, h, "GET", "/v1/connections", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Connections []model.Connection `json:"connections"`
		Total       int                `json:"total"`
	}
	decodeJSON(t, rec, &result)
	if result.Total != 1 || result.Connections[0].ID != "cx-1" {
		t.Fatalf("expected just cx-1, got %+v", result)
	}

	rec = doJSON(t, h, "GET", "/v1/connections?status=removed", nil)
	requireStatus(t, rec, 200)
	decodeJSON(t, rec, &result)
	if result.Total != 1 || result.Connections[0].ID != "cx-2" {
		t.Fatalf("expected just cx-2, got %+v", result)
	}
}

func TestAuthMiddleware(t *testing.T) {
	ms := newMockStore()
	s := NewGraphServer(ms, &events.NoopPublisher{}, engine.Options{}, 0)
	h := s.NewHTTPHandler("sekrit")

	// Health stays open for probes.
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)

	rec = doJSON(t, h, "GET", "/v1/items", nil)
	requireStatus(t, rec, 401)

	req := httptest.NewRequest("GET", "/v1/items", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	requireStatus(t, w, 401)

	req = httptest.NewRequest("GET", "/v1/items", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	requireStatus(t, w, 200)
}
