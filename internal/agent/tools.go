package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
)

// Tool names exposed to the model. Each tool performs exactly one task
// operation.
const (
	toolListTasks      = "list_tasks"
	toolQueryTasks     = "query_tasks"
	toolCreateTask     = "create_task"
	toolUpdateProperty = "update_property"
	toolCompleteTask   = "complete_task"
	toolDeleteTask     = "delete_task"
)

func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		functionTool(toolListTasks,
			"List the most recent tasks.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page_size": map[string]any{
						"type":        "integer",
						"description": "Number of tasks to return (1-100, default 10).",
					},
				},
			}),
		functionTool(toolQueryTasks,
			"Query tasks by property filters combined with AND.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filters": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"property": map[string]any{"type": "string", "description": "Semantic field (status, category, date) or the database property name."},
								"operator": map[string]any{"type": "string", "enum": []string{"equals", "contains", "on_or_before", "on_or_after"}},
								"value":    map[string]any{"type": "string"},
							},
							"required": []string{"property", "operator", "value"},
						},
					},
				},
				"required": []string{"filters"},
			}),
		functionTool(toolCreateTask,
			"Create a new task. Title is required.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":    map[string]any{"type": "string"},
					"due":      map[string]any{"type": "string", "description": "Due date, YYYY-MM-DD."},
					"category": map[string]any{"type": "string", "description": "Category option label, exactly as in the database."},
					"notes":    map[string]any{"type": "string"},
				},
				"required": []string{"title"},
			}),
		functionTool(toolUpdateProperty,
			"Change one property (status, category, date or notes) of a task identified by page id or title.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ref": map[string]any{"type": "string", "description": "Page id or task title."},
					"field":    map[string]any{"type": "string", "enum": []string{"status", "category", "date", "notes"}},
					"value":    map[string]any{"type": "string"},
				},
				"required": []string{"task_ref", "field", "value"},
			}),
		functionTool(toolCompleteTask,
			"Mark a task as done, identified by page id or title.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ref": map[string]any{"type": "string", "description": "Page id or task title."},
				},
				"required": []string{"task_ref"},
			}),
		functionTool(toolDeleteTask,
			"Archive (delete) a task. Requires confirm=true; ask the user first.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ref": map[string]any{"type": "string", "description": "Page id or task title."},
					"confirm":  map[string]any{"type": "boolean"},
				},
				"required": []string{"task_ref", "confirm"},
			}),
	}
}

func functionTool(name, description string, parameters map[string]any) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

type listTasksArgs struct {
	PageSize int `json:"page_size"`
}

type queryTasksArgs struct {
	Filters []core.FilterClause `json:"filters"`
}

type createTaskArgs struct {
	Title    string `json:"title"`
	Due      string `json:"due"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type updatePropertyArgs struct {
	TaskRef string `json:"task_ref"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

type taskRefArgs struct {
	TaskRef string `json:"task_ref"`
	Confirm bool   `json:"confirm"`
}

// dispatch executes one tool call and always returns an envelope; tool
// failures never escape as errors.
func (a *Agent) dispatch(ctx context.Context, name, arguments string) core.Envelope {
	switch name {
	case toolListTasks:
		var args listTasksArgs
		if env, ok := parseArgs(arguments, &args); !ok {
			return env
		}
		rows, err := a.svc.ListTasks(ctx, args.PageSize)
		if err != nil {
			return core.Envelope{OK: false, Error: err.Error(), Result: nil}
		}
		return core.Envelope{OK: true, Result: rows}

	case toolQueryTasks:
		var args queryTasksArgs
		if env, ok := parseArgs(arguments, &args); !ok {
			return env
		}
		return a.svc.RunPlan(ctx, core.Plan{
			Intent: core.IntentQuery,
			Selection: core.Selection{
				Strategy: core.StrategyByFilters,
				Filters:  args.Filters,
			},
		})

	case toolCreateTask:
		var args createTaskArgs
		if env, ok := parseArgs(arguments, &args); !ok {
			return env
		}
		if args.Title == "" {
			return core.Envelope{OK: false, Error: "title is required", Result: nil}
		}
		page, err := a.svc.CreateTask(ctx, core.CreateTaskInput{
			Title:    args.Title,
			Due:      args.Due,
			Category: args.Category,
			Notes:    args.Notes,
		})
		if err != nil {
			return core.Envelope{OK: false, Error: err.Error(), Result: nil}
		}
		return core.Envelope{OK: true, Result: page}

	case toolUpdateProperty:
		var args updatePropertyArgs
		if env, ok := parseArgs(arguments, &args); !ok {
			return env
		}
		patch, err := a.svc.Schema().BuildPatch(args.Field, args.Value)
		if err != nil {
			return core.Envelope{OK: false, Error: core.ErrKindUnsupportedField, Result: nil}
		}
		pageID, env, ok := a.resolveRef(ctx, args.TaskRef)
		if !ok {
			return env
		}
		page, err := a.svc.UpdateTask(ctx, pageID, patch)
		if err != nil {
			return core.Envelope{OK: false, Error: err.Error(), Result: nil}
		}
		return core.Envelope{OK: true, Result: page}

	case toolCompleteTask:
		var args taskRefArgs
		if env, ok := parseArgs(arguments, &args); !ok {
			return env
		}
		pageID, env, ok := a.resolveRef(ctx, args.TaskRef)
		if !ok {
			return env
		}
		page, err := a.svc.CompleteTask(ctx, pageID)
		if err != nil {
			return core.Envelope{OK: false, Error: err.Error(), Result: nil}
		}
		return core.Envelope{OK: true, Result: page}

	case toolDeleteTask:
		var args taskRefArgs
		if env, ok := parseArgs(arguments, &args); !ok {
			return env
		}
		if !args.Confirm {
			return core.Envelope{
				OK:     false,
				Error:  core.ErrKindConfirmRequired,
				Result: "deleting a task requires confirm=true; ask the user to confirm first",
			}
		}
		pageID, env, ok := a.resolveRef(ctx, args.TaskRef)
		if !ok {
			return env
		}
		page, err := a.svc.DeleteTask(ctx, pageID)
		if err != nil {
			return core.Envelope{OK: false, Error: err.Error(), Result: nil}
		}
		return core.Envelope{OK: true, Result: page}
	}
	return core.Envelope{OK: false, Error: fmt.Sprintf("unknown tool: %s", name), Result: nil}
}

func (a *Agent) resolveRef(ctx context.Context, ref string) (string, core.Envelope, bool) {
	pageID, err := a.svc.ResolveRef(ctx, ref)
	if err != nil {
		if errors.Is(err, core.ErrNoMatch) {
			return "", core.Envelope{OK: false, Error: core.ErrKindNoMatch, Result: []core.Row{}}, false
		}
		return "", core.Envelope{OK: false, Error: err.Error(), Result: nil}, false
	}
	return pageID, core.Envelope{}, true
}

func parseArgs(arguments string, out any) (core.Envelope, bool) {
	if err := json.Unmarshal([]byte(arguments), out); err != nil {
		return core.Envelope{
			OK:     false,
			Error:  fmt.Sprintf("invalid tool arguments: %v", err),
			Result: nil,
		}, false
	}
	return core.Envelope{}, true
}
