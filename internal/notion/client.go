package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
	defaultTimeout = 30 * time.Second
)

// Config holds the settings needed to talk to the Notion API.
type Config struct {
	Token      string
	DatabaseID string
	BaseURL    string
	Timeout    time.Duration
}

// Client is a thin HTTP client for the Notion API, fixed to a single tasks
// database. All page operations go through the database configured here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	databaseID string
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("notion: request failed with status %d", e.Status)
}

// NewClient validates the configuration and returns a client. A missing
// token or database id is a hard failure so the process refuses to start
// half-configured.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("notion: NOTION_TOKEN is required")
	}
	if strings.TrimSpace(cfg.DatabaseID) == "" {
		return nil, errors.New("notion: NOTION_TASKS_DB_ID is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		databaseID: strings.ReplaceAll(cfg.DatabaseID, "-", ""),
	}, nil
}

// DatabaseID returns the normalized (hyphen-free) tasks database id.
func (c *Client) DatabaseID() string {
	return c.databaseID
}

// QueryDatabase runs a database query and returns the raw result page.
func (c *Client) QueryDatabase(ctx context.Context, q Query) (*QueryResponse, error) {
	var resp QueryResponse
	path := fmt.Sprintf("/v1/databases/%s/query", c.databaseID)
	if err := c.do(ctx, http.MethodPost, path, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type createPageRequest struct {
	Parent     parent `json:"parent"`
	Properties any    `json:"properties"`
	Children   any    `json:"children,omitempty"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage creates a page in the tasks database. Properties and children
// may be typed (Properties) or raw JSON from a planner; either marshals to
// the same wire shape.
func (c *Client) CreatePage(ctx context.Context, properties, children any) (*Page, error) {
	if properties == nil {
		properties = Properties{}
	}
	req := createPageRequest{
		Parent:     parent{DatabaseID: c.databaseID},
		Properties: properties,
		Children:   children,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type updatePageRequest struct {
	Properties any   `json:"properties,omitempty"`
	Archived   *bool `json:"archived,omitempty"`
}

// UpdatePage patches the given properties on a page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties any) (*Page, error) {
	var page Page
	path := fmt.Sprintf("/v1/pages/%s", pageID)
	if err := c.do(ctx, http.MethodPatch, path, updatePageRequest{Properties: properties}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArchivePage sets the archived flag. Notion has no hard delete; this is
// the delete mechanism.
func (c *Client) ArchivePage(ctx context.Context, pageID string) (*Page, error) {
	archived := true
	var page Page
	path := fmt.Sprintf("/v1/pages/%s", pageID)
	if err := c.do(ctx, http.MethodPatch, path, updatePageRequest{Archived: &archived}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RetrieveDatabase fetches the database metadata, including the property
// schema.
func (c *Client) RetrieveDatabase(ctx context.Context) (*Database, error) {
	var db Database
	path := fmt.Sprintf("/v1/databases/%s", c.databaseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr == nil {
			_ = json.Unmarshal(data, apiErr)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
