package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// fakeStore implements core.RecordStore for handler tests.
type fakeStore struct {
	queries []notion.Query
	queryFn func(call int, q notion.Query) (*notion.QueryResponse, error)

	createdProps   any
	updatedPageID  string
	updatedProps   any
	archivedPageID string
	archiveCalls   int
	database       *notion.Database
}

func (f *fakeStore) QueryDatabase(ctx context.Context, q notion.Query) (*notion.QueryResponse, error) {
	f.queries = append(f.queries, q)
	if f.queryFn != nil {
		return f.queryFn(len(f.queries), q)
	}
	return &notion.QueryResponse{Results: []notion.Page{}}, nil
}

func (f *fakeStore) CreatePage(ctx context.Context, properties, children any) (*notion.Page, error) {
	f.createdProps = properties
	return &notion.Page{ID: "created"}, nil
}

func (f *fakeStore) UpdatePage(ctx context.Context, pageID string, properties any) (*notion.Page, error) {
	f.updatedPageID = pageID
	f.updatedProps = properties
	return &notion.Page{ID: pageID}, nil
}

func (f *fakeStore) ArchivePage(ctx context.Context, pageID string) (*notion.Page, error) {
	f.archiveCalls++
	f.archivedPageID = pageID
	return &notion.Page{ID: pageID, Archived: true}, nil
}

func (f *fakeStore) RetrieveDatabase(ctx context.Context) (*notion.Database, error) {
	if f.database != nil {
		return f.database, nil
	}
	return &notion.Database{Properties: map[string]notion.SchemaProperty{}}, nil
}

func newTestServer(t *testing.T, store core.RecordStore, authToken string) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := core.NewService(store, core.DefaultSchema(), logger)
	loc := time.FixedZone("KST", 9*60*60)
	srv, err := NewServer("127.0.0.1:0", authToken, svc, nil, nil, logger, loc)
	require.NoError(t, err)
	return srv
}

func doRequest(srv *Server, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

// singlePageResponder answers every query with one page; used to make
// task_ref resolution succeed.
func singlePageResponder(id, title string) func(call int, q notion.Query) (*notion.QueryResponse, error) {
	return func(call int, q notion.Query) (*notion.QueryResponse, error) {
		schema := core.DefaultSchema()
		page := notion.Page{
			ID: id,
			Properties: map[string]notion.Property{
				schema.TitleProp: {Title: []notion.RichText{{PlainText: title}}},
			},
		}
		return &notion.QueryResponse{Results: []notion.Page{page}}, nil
	}
}
