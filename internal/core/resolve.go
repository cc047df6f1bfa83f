package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// ErrNoMatch is returned when a reference resolves to zero tasks.
var ErrNoMatch = errors.New("no task matched the reference")

// pageIDPattern matches Notion page ids: 32 hex characters, with or without
// 8-4-4-4-12 grouping hyphens.
var pageIDPattern = regexp.MustCompile(
	`^[0-9a-fA-F]{32}$|^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

const resolvePageSize = 5

// IsPageID reports whether ref already has the lexical shape of a page id.
func IsPageID(ref string) bool {
	return pageIDPattern.MatchString(ref)
}

// ResolveRef turns a free-form reference (page id or title text) into a
// page id. Id-shaped refs are trusted and returned without a store call.
// Title refs search for an exact match first, then fall back to a substring
// match; among candidates an exact projected-title match wins, otherwise
// the first candidate in store order. Zero candidates is ErrNoMatch.
func (s *Service) ResolveRef(ctx context.Context, ref string) (string, error) {
	if IsPageID(ref) {
		return ref, nil
	}

	rows, err := s.findByTitle(ctx, ref, "", resolvePageSize)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNoMatch
	}
	for _, row := range rows {
		if row.Title == ref {
			return row.PageID, nil
		}
	}
	return rows[0].PageID, nil
}

// FindByTitle returns up to pageSize rows whose title exactly equals title,
// optionally constrained to a date. Used by the selection engine for the
// by_title_exact strategy.
func (s *Service) FindByTitle(ctx context.Context, title, dateEquals string, pageSize int) ([]Row, error) {
	and := []notion.Filter{
		{Property: s.schema.TitleProp, Title: &notion.TextCondition{Equals: title}},
	}
	if dateEquals != "" {
		and = append(and, notion.Filter{
			Property: s.schema.DateProp,
			Date:     &notion.DateCondition{Equals: dateEquals},
		})
	}
	resp, err := s.store.QueryDatabase(ctx, notion.Query{
		Filter:   &notion.Filter{And: and},
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("find by title: %w", err)
	}
	return s.schema.ProjectPages(resp.Results), nil
}

// findByTitle searches with an exact title filter and, when that yields
// nothing, retries with a contains filter.
func (s *Service) findByTitle(ctx context.Context, title, dateEquals string, pageSize int) ([]Row, error) {
	rows, err := s.FindByTitle(ctx, title, dateEquals, pageSize)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}
	resp, err := s.store.QueryDatabase(ctx, notion.Query{
		Filter: &notion.Filter{
			Property: s.schema.TitleProp,
			Title:    &notion.TextCondition{Contains: title},
		},
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("find by title contains: %w", err)
	}
	return s.schema.ProjectPages(resp.Results), nil
}

// clauseFilter translates one planner filter clause into a store filter.
// Date properties become date-equals, status/select/location-like
// properties become equals-by-label, everything else a title contains.
func (s Schema) clauseFilter(clause FilterClause) notion.Filter {
	prop := s.canonicalProp(clause.Property)
	switch {
	case s.isDateProp(prop):
		return notion.Filter{Property: prop, Date: &notion.DateCondition{Equals: clause.Value}}
	case prop == s.StatusProp:
		return notion.Filter{Property: prop, Status: &notion.EqualsCondition{Equals: clause.Value}}
	case prop == s.CategoryProp, prop == s.LocationProp:
		return notion.Filter{Property: prop, Select: &notion.EqualsCondition{Equals: clause.Value}}
	default:
		return notion.Filter{Property: prop, Title: &notion.TextCondition{Contains: clause.Value}}
	}
}

// filtersQuery combines planner filter clauses into one AND query.
func (s Schema) filtersQuery(clauses []FilterClause) notion.Query {
	if len(clauses) == 0 {
		return notion.Query{}
	}
	and := make([]notion.Filter, 0, len(clauses))
	for _, clause := range clauses {
		and = append(and, s.clauseFilter(clause))
	}
	return notion.Query{Filter: &notion.Filter{And: and}}
}

// dateEqualsFromFilters extracts the first date-property filter carrying an
// equals/on_or_before/on_or_after operator and returns its value. Range
// operators are collapsed to an equality approximation; a known
// simplification kept for compatibility with the planner prompt.
func (s Schema) dateEqualsFromFilters(clauses []FilterClause) string {
	for _, clause := range clauses {
		if !s.isDateProp(clause.Property) {
			continue
		}
		switch clause.Operator {
		case "equals", "on_or_before", "on_or_after":
			return clause.Value
		}
	}
	return ""
}
