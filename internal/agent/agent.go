package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
)

// Config holds the language-model settings for the agent.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Agent turns a natural-language instruction into exactly one task-tool
// invocation through an OpenAI-compatible chat completion. One user turn is
// one model call and at most one tool execution; re-prompting on ambiguity
// is the caller's job.
type Agent struct {
	client   *openai.Client
	svc      *core.Service
	logger   *slog.Logger
	location *time.Location
	model    string
}

// Result is the outcome of one agent turn.
type Result struct {
	// Tool is the tool the model invoked, or empty when it answered in
	// plain text.
	Tool     string
	Envelope core.Envelope
}

// New validates the configuration and returns an agent.
func New(cfg Config, svc *core.Service, logger *slog.Logger, location *time.Location) (*Agent, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("agent: OPENAI_API_KEY is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Agent{
		client:   openai.NewClientWithConfig(clientCfg),
		svc:      svc,
		logger:   logger,
		location: location,
		model:    model,
	}, nil
}

// Run executes one user instruction. Relative-date keywords are normalized
// to absolute dates before the model sees the text.
func (a *Agent) Run(ctx context.Context, text string) (Result, error) {
	normalized := core.NormalizeRelativeDates(text, a.location)

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: normalized},
		},
		Tools:      toolDefinitions(),
		ToolChoice: "auto",
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("chat completion returned no choices")
	}

	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return Result{Envelope: core.Envelope{OK: true, Result: message.Content}}, nil
	}

	// Single-call policy: only the first tool call is executed.
	call := message.ToolCalls[0]
	a.logger.Info("agent tool call", "tool", call.Function.Name)
	env := a.dispatch(ctx, call.Function.Name, call.Function.Arguments)
	return Result{Tool: call.Function.Name, Envelope: env}, nil
}

func (a *Agent) systemPrompt() string {
	schema := a.svc.Schema()
	return fmt.Sprintf(`You are a personal task assistant backed by a Notion tasks database.
Today is %s (%s).
Translate the user's instruction into exactly ONE tool call; never chain tools.
Dates must be absolute YYYY-MM-DD strings.
The database properties are: title=%q, status=%q, category=%q, date=%q, notes=%q.
Status and category values must match the database option labels exactly (completed status is %q).
When the user refers to a task by name, pass the name as task_ref and let the backend resolve it.
If the instruction needs no tool (greetings, questions about your abilities), answer briefly in the user's language.`,
		core.TodayString(a.location), a.location.String(),
		schema.TitleProp, schema.StatusProp, schema.CategoryProp, schema.DateProp, schema.NotesProp,
		schema.DoneStatus)
}
