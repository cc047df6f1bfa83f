package core

import (
	"context"
	"encoding/json"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// Plan intents. Anything else fails with unknown_intent:<value>.
const (
	IntentQuery  = "query"
	IntentCreate = "create"
	IntentUpdate = "update"
	IntentDelete = "delete"
)

// Selection strategies the planner may name.
const (
	StrategyByTitleExact = "by_title_exact"
	StrategyByTitleFuzzy = "by_title_fuzzy"
	StrategyByFilters    = "by_filters"
)

// Error kinds surfaced in envelopes.
const (
	ErrKindNoMatch          = "no_match"
	ErrKindMultipleMatches  = "multiple_matches"
	ErrKindMissingPageID    = "missing_page_id"
	ErrKindUnsupportedField = "unsupported_field"
	ErrKindConfirmRequired  = "confirm_required"
)

// Plan is one planner instruction: an intent, the selection identifying the
// target record, and the request body to apply. It is consumed exactly once
// by RunPlan.
type Plan struct {
	Intent    string    `json:"intent"`
	Selection Selection `json:"selection"`
	Request   Request   `json:"request"`
}

// Selection identifies which record(s) a plan acts on. At most one strategy
// is active: an explicit page id wins over a named strategy.
type Selection struct {
	PageID   string         `json:"page_id,omitempty"`
	Strategy string         `json:"strategy,omitempty"`
	Title    string         `json:"title,omitempty"`
	Filters  []FilterClause `json:"filters,omitempty"`
}

// FilterClause is one (property, operator, value) triple from the planner.
type FilterClause struct {
	Property string `json:"property"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Request wraps the optional request body of a plan.
type Request struct {
	Body *RequestBody `json:"body,omitempty"`
}

// RequestBody carries planner-supplied payload fragments. Properties,
// children, filter and sorts are kept as raw JSON and forwarded to the
// store verbatim.
type RequestBody struct {
	Properties json.RawMessage `json:"properties,omitempty"`
	Children   json.RawMessage `json:"children,omitempty"`
	Filter     json.RawMessage `json:"filter,omitempty"`
	Sorts      json.RawMessage `json:"sorts,omitempty"`
	PageSize   int             `json:"page_size,omitempty"`
}

func (b *RequestBody) isEmpty() bool {
	if b == nil {
		return true
	}
	return len(b.Properties) == 0 && len(b.Children) == 0 &&
		len(b.Filter) == 0 && len(b.Sorts) == 0 && b.PageSize == 0
}

// Envelope is the uniform result of every plan execution. Result is always
// present, even on failure (empty list for no_match, the candidate list for
// multiple_matches, nil otherwise).
type Envelope struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Row is the normalized, agent-friendly view of a task page.
type Row struct {
	PageID   string  `json:"page_id"`
	Title    string  `json:"title"`
	Status   *string `json:"status"`
	Category *string `json:"category"`
	Date     *string `json:"date"`
	URL      string  `json:"url"`
}

// RecordStore is the record-store contract the resolver and executor run
// against. *notion.Client satisfies it; tests substitute fakes.
type RecordStore interface {
	QueryDatabase(ctx context.Context, q notion.Query) (*notion.QueryResponse, error)
	CreatePage(ctx context.Context, properties, children any) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties any) (*notion.Page, error)
	ArchivePage(ctx context.Context, pageID string) (*notion.Page, error)
	RetrieveDatabase(ctx context.Context) (*notion.Database, error)
}
