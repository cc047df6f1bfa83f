package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// Service bundles the task operations every surface (HTTP, agent tools,
// MCP) goes through: typed CRUD on the tasks database plus the plan
// executor. It holds no mutable state; each call is independent.
type Service struct {
	store  RecordStore
	schema Schema
	logger *slog.Logger
}

// NewService wires the service against a record store.
func NewService(store RecordStore, schema Schema, logger *slog.Logger) *Service {
	return &Service{store: store, schema: schema, logger: logger}
}

// Schema returns the property naming in effect.
func (s *Service) Schema() Schema {
	return s.schema
}

// ListTasks returns the newest pageSize rows from the tasks database.
func (s *Service) ListTasks(ctx context.Context, pageSize int) ([]Row, error) {
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	resp, err := s.store.QueryDatabase(ctx, notion.Query{PageSize: pageSize})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return s.schema.ProjectPages(resp.Results), nil
}

// CreateTaskInput is the typed create payload. Title is required; the rest
// is set only when present.
type CreateTaskInput struct {
	Title    string
	Due      string
	Category string
	Notes    string
}

// CreateTask creates a task with the default status.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*notion.Page, error) {
	props := notion.Properties{
		s.schema.TitleProp: {
			Title: []notion.RichText{{Text: &notion.Text{Content: in.Title}}},
		},
		s.schema.StatusProp: {
			Status: &notion.Option{Name: s.schema.DefaultStatus},
		},
	}
	if in.Due != "" {
		props[s.schema.DateProp] = notion.Property{Date: &notion.Date{Start: in.Due}}
	}
	if in.Category != "" {
		props[s.schema.CategoryProp] = notion.Property{Select: &notion.Option{Name: in.Category}}
	}
	if in.Notes != "" {
		props[s.schema.NotesProp] = notion.Property{
			RichText: []notion.RichText{{Text: &notion.Text{Content: in.Notes}}},
		}
	}
	page, err := s.store.CreatePage(ctx, props, nil)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return page, nil
}

// UpdateTask applies a property patch to a page.
func (s *Service) UpdateTask(ctx context.Context, pageID string, patch notion.Properties) (*notion.Page, error) {
	page, err := s.store.UpdatePage(ctx, pageID, patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return page, nil
}

// CompleteTask sets the status to the done label. Completing an already
// completed task applies the same patch again and is a no-op on the record.
func (s *Service) CompleteTask(ctx context.Context, pageID string) (*notion.Page, error) {
	patch, err := s.schema.BuildPatch(FieldStatus, s.schema.DoneStatus)
	if err != nil {
		return nil, err
	}
	return s.UpdateTask(ctx, pageID, patch)
}

// DeleteTask archives a page. Archival is the store's only deletion
// mechanism; nothing is hard-deleted.
func (s *Service) DeleteTask(ctx context.Context, pageID string) (*notion.Page, error) {
	page, err := s.store.ArchivePage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return page, nil
}

// DescribeDatabase returns the property schema of the tasks database.
func (s *Service) DescribeDatabase(ctx context.Context) (map[string]notion.SchemaProperty, error) {
	db, err := s.store.RetrieveDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("describe database: %w", err)
	}
	return db.Properties, nil
}
