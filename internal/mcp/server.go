package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
)

// MCPServer exposes the task operations as MCP tools over stdio, so MCP
// clients can drive the same service the HTTP agent does.
type MCPServer struct {
	svc      *core.Service
	logger   *slog.Logger
	location *time.Location
}

// NewMCPServer creates a new MCP server instance.
func NewMCPServer(svc *core.Service, logger *slog.Logger, location *time.Location) *MCPServer {
	return &MCPServer{svc: svc, logger: logger, location: location}
}

// Run starts the MCP server using stdio transport.
func (s *MCPServer) Run() error {
	mcpServer := server.NewMCPServer(
		"notiond",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.logger.Info("MCP server starting on stdio")
	return server.ServeStdio(mcpServer)
}

func (s *MCPServer) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("notion_list_tasks",
		mcp.WithDescription("List the most recent tasks in the Notion tasks database"),
		mcp.WithNumber("page_size",
			mcp.Description("Number of tasks to return (default 10)"),
			mcp.Min(1),
			mcp.Max(100),
		),
	), s.handleListTasks)

	mcpServer.AddTool(mcp.NewTool("notion_query_tasks",
		mcp.WithDescription("Query tasks by one property filter (date properties match by equality, status/category by option label)"),
		mcp.WithString("property",
			mcp.Required(),
			mcp.Description("Semantic field (status, category, date) or the database property name"),
		),
		mcp.WithString("operator",
			mcp.Required(),
			mcp.Description("Filter operator"),
			mcp.Enum("equals", "contains", "on_or_before", "on_or_after"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to match"),
		),
	), s.handleQueryTasks)

	mcpServer.AddTool(mcp.NewTool("notion_create_task",
		mcp.WithDescription("Create a new task"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("due",
			mcp.Description("Due date, YYYY-MM-DD"),
		),
		mcp.WithString("category",
			mcp.Description("Category option label, exactly as in the database"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-text notes"),
		),
	), s.handleCreateTask)

	mcpServer.AddTool(mcp.NewTool("notion_update_property",
		mcp.WithDescription("Change one property of a task identified by page id or title"),
		mcp.WithString("task_ref",
			mcp.Required(),
			mcp.Description("Page id or task title"),
		),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("Property to change"),
			mcp.Enum("status", "category", "date", "notes"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("New value (option label, YYYY-MM-DD date, or text)"),
		),
	), s.handleUpdateProperty)

	mcpServer.AddTool(mcp.NewTool("notion_complete_task",
		mcp.WithDescription("Mark a task as done, identified by page id or title"),
		mcp.WithString("task_ref",
			mcp.Required(),
			mcp.Description("Page id or task title"),
		),
	), s.handleCompleteTask)

	mcpServer.AddTool(mcp.NewTool("notion_delete_task",
		mcp.WithDescription("Archive (delete) a task; requires confirm=true"),
		mcp.WithString("task_ref",
			mcp.Required(),
			mcp.Description("Page id or task title"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Must be true to actually archive the task"),
		),
	), s.handleDeleteTask)

	mcpServer.AddTool(mcp.NewTool("notion_describe_db",
		mcp.WithDescription("Describe the property schema of the tasks database"),
	), s.handleDescribeDB)

	s.logger.Info("MCP tools registered", "count", 7)
}

func (s *MCPServer) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageSize := int(mcp.ParseFloat64(request, "page_size", 10))
	rows, err := s.svc.ListTasks(ctx, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list tasks: %v", err)), nil
	}
	return jsonResult(map[string]any{"ok": true, "data": rows})
}

func (s *MCPServer) handleQueryTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clause := core.FilterClause{
		Property: mcp.ParseString(request, "property", ""),
		Operator: mcp.ParseString(request, "operator", "equals"),
		Value:    mcp.ParseString(request, "value", ""),
	}
	if clause.Property == "" {
		return mcp.NewToolResultError("property is required"), nil
	}
	env := s.svc.RunPlan(ctx, core.Plan{
		Intent: core.IntentQuery,
		Selection: core.Selection{
			Strategy: core.StrategyByFilters,
			Filters:  []core.FilterClause{clause},
		},
	})
	return jsonResult(env)
}

func (s *MCPServer) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := mcp.ParseString(request, "title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	page, err := s.svc.CreateTask(ctx, core.CreateTaskInput{
		Title:    title,
		Due:      mcp.ParseString(request, "due", ""),
		Category: mcp.ParseString(request, "category", ""),
		Notes:    mcp.ParseString(request, "notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create task: %v", err)), nil
	}
	return jsonResult(map[string]any{"ok": true, "data": page})
}

func (s *MCPServer) handleUpdateProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	field := mcp.ParseString(request, "field", "")
	value := mcp.ParseString(request, "value", "")
	patch, err := s.svc.Schema().BuildPatch(field, value)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported field: %s", field)), nil
	}
	pageID, errResult := s.resolveRef(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	page, err := s.svc.UpdateTask(ctx, pageID, patch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update task: %v", err)), nil
	}
	return jsonResult(map[string]any{"ok": true, "data": page})
}

func (s *MCPServer) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, errResult := s.resolveRef(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	page, err := s.svc.CompleteTask(ctx, pageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("complete task: %v", err)), nil
	}
	return jsonResult(map[string]any{"ok": true, "data": page})
}

func (s *MCPServer) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !mcp.ParseBoolean(request, "confirm", false) {
		return mcp.NewToolResultError("confirm=true is required; this flag guards against accidental deletion"), nil
	}
	pageID, errResult := s.resolveRef(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	page, err := s.svc.DeleteTask(ctx, pageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete task: %v", err)), nil
	}
	return jsonResult(map[string]any{"ok": true, "data": page})
}

func (s *MCPServer) handleDescribeDB(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	props, err := s.svc.DescribeDatabase(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe database: %v", err)), nil
	}
	return jsonResult(map[string]any{"ok": true, "data": props})
}

func (s *MCPServer) resolveRef(ctx context.Context, request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	ref := mcp.ParseString(request, "task_ref", "")
	if ref == "" {
		return "", mcp.NewToolResultError("task_ref is required")
	}
	pageID, err := s.svc.ResolveRef(ctx, ref)
	if err != nil {
		if errors.Is(err, core.ErrNoMatch) {
			return "", mcp.NewToolResultError(fmt.Sprintf("no task matched %q", ref))
		}
		return "", mcp.NewToolResultError(fmt.Sprintf("resolve task: %v", err))
	}
	return pageID, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
