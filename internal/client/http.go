package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/trellisplan/trellis/internal/model"
)

// HTTPClient implements GraphClient using the trellis HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Work item CRUD ---

func (c *HTTPClient) CreateItem(ctx context.Context, req *CreateItemRequest) (*model.WorkItem, error) {
	var item model.WorkItem
	if err := c.doJSON(ctx, http.MethodPost, "/v1/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) GetItem(ctx context.Context, id string) (*model.WorkItem, error) {
	var item model.WorkItem
	if err := c.doJSON(ctx, http.MethodGet, "/v1/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	q := url.Values{}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if len(req.Type) > 0 {
		q.Set("type", strings.Join(req.Type, ","))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListItemsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*model.WorkItem, error) {
	var item model.WorkItem
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/items/"+url.PathEscape(id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/items/"+url.PathEscape(id), nil, nil)
}

// --- Connections ---

func (c *HTTPClient) CreateConnection(ctx context.Context, req *CreateConnectionRequest) (*model.Connection, error) {
	var conn model.Connection
	if err := c.doJSON(ctx, http.MethodPost, "/v1/connections", req, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (c *HTTPClient) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	var conn model.Connection
	if err := c.doJSON(ctx, http.MethodGet, "/v1/connections/"+url.PathEscape(id), nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (c *HTTPClient) ListConnections(ctx context.Context, req *ListConnectionsRequest) (*ListConnectionsResponse, error) {
	q := url.Values{}
	if req.ItemID != "" {
		q.Set("item", req.ItemID)
	}
	if len(req.Type) > 0 {
		q.Set("type", strings.Join(req.Type, ","))
	}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}

	path := "/v1/connections"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListConnectionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) RemoveConnection(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/connections/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ApplyFix(ctx context.Context, connectionID string, req *ApplyFixRequest) error {
	path := "/v1/connections/" + url.PathEscape(connectionID) + "/fix"
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

// --- Analysis ---

func (c *HTTPClient) Analyze(ctx context.Context) (*model.AnalysisResult, error) {
	var res model.AnalysisResult
	if err := c.doJSON(ctx, http.MethodGet, "/v1/analysis", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) AnalyzeDocument(ctx context.Context, doc *AnalyzeDocumentRequest) (*model.AnalysisResult, error) {
	var res model.AnalysisResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/analysis", doc, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Graph(ctx context.Context) (*model.GraphResponse, error) {
	var resp model.GraphResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/graph", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Suggestions ---

func (c *HTTPClient) ValidateSuggestions(ctx context.Context, req *ValidateSuggestionsRequest) (*ValidateSuggestionsResponse, error) {
	var resp ValidateSuggestionsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/suggestions/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content means success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
