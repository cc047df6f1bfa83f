package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

func TestListTasksClampsPageSize(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.ListTasks(ctx, 0)
	require.NoError(t, err)
	_, err = svc.ListTasks(ctx, 500)
	require.NoError(t, err)
	_, err = svc.ListTasks(ctx, 25)
	require.NoError(t, err)

	require.Len(t, store.queries, 3)
	assert.Equal(t, 10, store.queries[0].PageSize)
	assert.Equal(t, 100, store.queries[1].PageSize)
	assert.Equal(t, 25, store.queries[2].PageSize)
}

func TestCreateTaskSetsDefaultStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	schema := DefaultSchema()

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{Title: "장보기"})
	require.NoError(t, err)

	props, ok := store.createdProps.(notion.Properties)
	require.True(t, ok)
	require.Contains(t, props, schema.TitleProp)
	require.Len(t, props[schema.TitleProp].Title, 1)
	assert.Equal(t, "장보기", props[schema.TitleProp].Title[0].Text.Content)
	require.Contains(t, props, schema.StatusProp)
	assert.Equal(t, schema.DefaultStatus, props[schema.StatusProp].Status.Name)
	assert.NotContains(t, props, schema.DateProp)
	assert.NotContains(t, props, schema.CategoryProp)
	assert.NotContains(t, props, schema.NotesProp)
}

func TestCreateTaskOptionalFields(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	schema := DefaultSchema()

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:    "보고서 쓰기",
		Due:      "2025-05-02",
		Category: "Work",
		Notes:    "초안만",
	})
	require.NoError(t, err)

	props := store.createdProps.(notion.Properties)
	assert.Equal(t, "2025-05-02", props[schema.DateProp].Date.Start)
	assert.Equal(t, "Work", props[schema.CategoryProp].Select.Name)
	assert.Equal(t, "초안만", props[schema.NotesProp].RichText[0].Text.Content)
}

func TestCompleteTaskPatchesDoneStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	schema := DefaultSchema()

	_, err := svc.CompleteTask(context.Background(), "page-1")
	require.NoError(t, err)

	assert.Equal(t, "page-1", store.updatedPageID)
	props, ok := store.updatedProps.(notion.Properties)
	require.True(t, ok)
	assert.Equal(t, schema.DoneStatus, props[schema.StatusProp].Status.Name)
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	schema := DefaultSchema()

	_, err := svc.CompleteTask(context.Background(), "page-1")
	require.NoError(t, err)
	first := store.updatedProps

	_, err = svc.CompleteTask(context.Background(), "page-1")
	require.NoError(t, err)

	// The second completion applies the identical patch again.
	assert.Equal(t, first, store.updatedProps)
	assert.Equal(t, schema.DoneStatus,
		store.updatedProps.(notion.Properties)[schema.StatusProp].Status.Name)
}

func TestDeleteTaskArchives(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	page, err := svc.DeleteTask(context.Background(), "page-2")
	require.NoError(t, err)
	assert.Equal(t, "page-2", store.archivedPageID)
	assert.True(t, page.Archived)
}

func TestDescribeDatabase(t *testing.T) {
	store := &fakeStore{
		database: &notion.Database{Properties: map[string]notion.SchemaProperty{
			"할 일": {Type: "title"},
			"상태":  {Type: "status"},
		}},
	}
	svc := newTestService(store)

	props, err := svc.DescribeDatabase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "title", props["할 일"].Type)
	assert.Equal(t, "status", props["상태"].Type)
}
