package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// RunPlan executes one planner instruction and returns the result envelope.
// This is the single error boundary for plan execution: every failure,
// including store transport errors, comes back as ok=false rather than an
// error return.
func (s *Service) RunPlan(ctx context.Context, plan Plan) Envelope {
	body := plan.Request.Body

	pageID := plan.Selection.PageID
	if pageID == "" && strategyResolvesTitle(plan.Selection.Strategy) && plan.Selection.Title != "" {
		dateEquals := s.schema.dateEqualsFromFilters(plan.Selection.Filters)
		candidates, err := s.FindByTitle(ctx, plan.Selection.Title, dateEquals, resolvePageSize)
		if err != nil {
			return Envelope{OK: false, Error: err.Error(), Result: nil}
		}
		switch len(candidates) {
		case 0:
			return Envelope{OK: false, Error: ErrKindNoMatch, Result: []Row{}}
		case 1:
			pageID = candidates[0].PageID
		default:
			// Never guess between candidates; the caller disambiguates.
			return Envelope{OK: false, Error: ErrKindMultipleMatches, Result: candidates}
		}
	}

	switch plan.Intent {
	case IntentQuery:
		return s.runQuery(ctx, plan.Selection, body)
	case IntentCreate:
		return s.runCreate(ctx, body)
	case IntentUpdate:
		return s.runUpdate(ctx, pageID, body)
	case IntentDelete:
		return s.runDelete(ctx, pageID)
	default:
		return Envelope{OK: false, Error: fmt.Sprintf("unknown_intent:%s", plan.Intent), Result: nil}
	}
}

func (s *Service) runQuery(ctx context.Context, selection Selection, body *RequestBody) Envelope {
	var query notion.Query
	if body.isEmpty() {
		query = s.schema.filtersQuery(selection.Filters)
	} else {
		// The planner supplied an explicit query body; forward it verbatim.
		query = notion.Query{
			Filter:   rawOrNil(body.Filter),
			Sorts:    rawOrNil(body.Sorts),
			PageSize: body.PageSize,
		}
	}
	resp, err := s.store.QueryDatabase(ctx, query)
	if err != nil {
		return Envelope{OK: false, Error: err.Error(), Result: nil}
	}
	return Envelope{OK: true, Result: s.schema.ProjectPages(resp.Results)}
}

func (s *Service) runCreate(ctx context.Context, body *RequestBody) Envelope {
	var properties, children any
	if body != nil {
		properties = rawOrNil(body.Properties)
		children = rawOrNil(body.Children)
	}
	page, err := s.store.CreatePage(ctx, properties, children)
	if err != nil {
		return Envelope{OK: false, Error: err.Error(), Result: nil}
	}
	return Envelope{OK: true, Result: page}
}

func (s *Service) runUpdate(ctx context.Context, pageID string, body *RequestBody) Envelope {
	if pageID == "" {
		return Envelope{OK: false, Error: ErrKindMissingPageID, Result: nil}
	}
	var properties any
	if body != nil {
		properties = rawOrNil(body.Properties)
	}
	page, err := s.store.UpdatePage(ctx, pageID, properties)
	if err != nil {
		return Envelope{OK: false, Error: err.Error(), Result: nil}
	}
	return Envelope{OK: true, Result: page}
}

func (s *Service) runDelete(ctx context.Context, pageID string) Envelope {
	if pageID == "" {
		return Envelope{OK: false, Error: ErrKindMissingPageID, Result: nil}
	}
	page, err := s.store.ArchivePage(ctx, pageID)
	if err != nil {
		return Envelope{OK: false, Error: err.Error(), Result: nil}
	}
	return Envelope{OK: true, Result: page}
}

func strategyResolvesTitle(strategy string) bool {
	switch strategy {
	case StrategyByTitleExact, StrategyByTitleFuzzy, StrategyByFilters:
		return true
	}
	return false
}

func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
