package core

import (
	"strings"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// ProjectPage converts a raw page into a Row. Missing or differently typed
// properties project to nil/empty values; projection never fails.
func (s Schema) ProjectPage(page notion.Page) Row {
	row := Row{
		PageID: page.ID,
		URL:    page.URL,
	}
	props := page.Properties

	if title, ok := props[s.TitleProp]; ok {
		row.Title = joinRichText(title.Title)
	}
	if status, ok := props[s.StatusProp]; ok && status.Status != nil {
		name := status.Status.Name
		row.Status = &name
	}
	if category, ok := props[s.CategoryProp]; ok && category.Select != nil {
		name := category.Select.Name
		row.Category = &name
	}
	if date, ok := props[s.DateProp]; ok && date.Date != nil {
		start := date.Date.Start
		row.Date = &start
	}
	return row
}

// ProjectPages projects every page in order. A nil input projects to an
// empty, non-nil slice so callers can return it as a JSON array.
func (s Schema) ProjectPages(pages []notion.Page) []Row {
	rows := make([]Row, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, s.ProjectPage(page))
	}
	return rows
}

// joinRichText concatenates the text fragments of a title value in order.
// plain_text is authoritative on read; freshly built payloads only carry
// text.content, so fall back to that.
func joinRichText(fragments []notion.RichText) string {
	var b strings.Builder
	for _, fragment := range fragments {
		if fragment.PlainText != "" {
			b.WriteString(fragment.PlainText)
			continue
		}
		if fragment.Text != nil {
			b.WriteString(fragment.Text.Content)
		}
	}
	return b.String()
}
