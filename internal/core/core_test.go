package core

import (
	"context"
	"io"
	"log/slog"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// fakeStore implements RecordStore and records every call for assertions.
type fakeStore struct {
	queries []notion.Query
	queryFn func(call int, q notion.Query) (*notion.QueryResponse, error)

	createdProps   any
	createdChilds  any
	createFn       func(properties, children any) (*notion.Page, error)
	updatedPageID  string
	updatedProps   any
	updateFn       func(pageID string, properties any) (*notion.Page, error)
	archivedPageID string
	archiveFn      func(pageID string) (*notion.Page, error)
	database       *notion.Database
	databaseErr    error
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
	f.createdChilds = children
	if f.createFn != nil {
		return f.createFn(properties, children)
	}
	return &notion.Page{ID: "created"}, nil
}

func (f *fakeStore) UpdatePage(ctx context.Context, pageID string, properties any) (*notion.Page, error) {
	f.updatedPageID = pageID
	f.updatedProps = properties
	if f.updateFn != nil {
		return f.updateFn(pageID, properties)
	}
	return &notion.Page{ID: pageID}, nil
}

func (f *fakeStore) ArchivePage(ctx context.Context, pageID string) (*notion.Page, error) {
	f.archivedPageID = pageID
	if f.archiveFn != nil {
		return f.archiveFn(pageID)
	}
	return &notion.Page{ID: pageID, Archived: true}, nil
}

func (f *fakeStore) RetrieveDatabase(ctx context.Context) (*notion.Database, error) {
	if f.databaseErr != nil {
		return nil, f.databaseErr
	}
	if f.database != nil {
		return f.database, nil
	}
	return &notion.Database{Properties: map[string]notion.SchemaProperty{}}, nil
}

func newTestService(store RecordStore) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, DefaultSchema(), logger)
}

// taskPage builds a raw page the way the API returns it.
func taskPage(id, title, status, category, date string) notion.Page {
	schema := DefaultSchema()
	props := map[string]notion.Property{
		schema.TitleProp: {Title: []notion.RichText{{PlainText: title}}},
	}
	if status != "" {
		props[schema.StatusProp] = notion.Property{Status: &notion.Option{Name: status}}
	}
	if category != "" {
		props[schema.CategoryProp] = notion.Property{Select: &notion.Option{Name: category}}
	}
	if date != "" {
		props[schema.DateProp] = notion.Property{Date: &notion.Date{Start: date}}
	}
	return notion.Page{
		ID:         id,
		URL:        "https://www.notion.so/" + id,
		Properties: props,
	}
}

func pagesResponse(pages ...notion.Page) *notion.QueryResponse {
	return &notion.QueryResponse{Results: pages}
}
