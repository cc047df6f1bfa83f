package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDBID = "0123456789abcdef0123456789abcdef"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{
		Token:      "secret-token",
		DatabaseID: testDBID,
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{DatabaseID: testDBID})
	assert.ErrorContains(t, err, "NOTION_TOKEN")

	_, err = NewClient(Config{Token: "secret"})
	assert.ErrorContains(t, err, "NOTION_TASKS_DB_ID")

	_, err = NewClient(Config{Token: "  ", DatabaseID: testDBID})
	assert.Error(t, err)
}

func TestNewClientStripsDatabaseIDHyphens(t *testing.T) {
	client, err := NewClient(Config{
		Token:      "secret",
		DatabaseID: "01234567-89ab-cdef-0123-456789abcdef",
	})
	require.NoError(t, err)
	assert.Equal(t, testDBID, client.DatabaseID())
}

func TestQueryDatabase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/"+testDBID+"/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["page_size"])

		io.WriteString(w, `{
			"results": [{"id": "page-1", "properties": {}}],
			"has_more": false,
			"next_cursor": null
		}`)
	})

	resp, err := client.QueryDatabase(context.Background(), Query{PageSize: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "page-1", resp.Results[0].ID)
	assert.False(t, resp.HasMore)
}

func TestCreatePageInjectsParent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pages", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		parent, ok := body["parent"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, testDBID, parent["database_id"])
		assert.Contains(t, body, "properties")
		assert.NotContains(t, body, "children")

		io.WriteString(w, `{"id": "created-1"}`)
	})

	page, err := client.CreatePage(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "created-1", page.ID)
}

func TestCreatePageForwardsRawProperties(t *testing.T) {
	raw := json.RawMessage(`{"할 일": {"title": [{"text": {"content": "장보기"}}]}}`)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Properties json.RawMessage `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, string(raw), string(body.Properties))
		io.WriteString(w, `{"id": "created-2"}`)
	})

	_, err := client.CreatePage(context.Background(), raw, nil)
	require.NoError(t, err)
}

func TestUpdatePage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/pages/page-1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "properties")
		assert.NotContains(t, body, "archived")

		io.WriteString(w, `{"id": "page-1"}`)
	})

	patch := Properties{"상태": {Status: &Option{Name: "완료"}}}
	page, err := client.UpdatePage(context.Background(), "page-1", patch)
	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)
}

func TestArchivePage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/pages/page-2", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["archived"])
		assert.NotContains(t, body, "properties")

		io.WriteString(w, `{"id": "page-2", "archived": true}`)
	})

	page, err := client.ArchivePage(context.Background(), "page-2")
	require.NoError(t, err)
	assert.True(t, page.Archived)
}

func TestRetrieveDatabase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/databases/"+testDBID, r.URL.Path)
		io.WriteString(w, `{
			"id": "`+testDBID+`",
			"properties": {"할 일": {"type": "title"}, "상태": {"type": "status"}}
		}`)
	})

	db, err := client.RetrieveDatabase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "title", db.Properties["할 일"].Type)
	assert.Equal(t, "status", db.Properties["상태"].Type)
}

func TestAPIErrorDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"object": "error", "code": "validation_error", "message": "body failed validation"}`)
	})

	_, err := client.QueryDatabase(context.Background(), Query{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "body failed validation")
}

func TestAPIErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.QueryDatabase(context.Background(), Query{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "502")
}
