package core

import (
	"errors"
	"fmt"

	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
)

// ErrUnsupportedField is returned for patch fields outside the closed set.
var ErrUnsupportedField = errors.New(ErrKindUnsupportedField)

// BuildPatch maps one semantic field (status, category, date, notes; the
// store property names are accepted too) and a value to the exact nested
// properties object the store's update call expects. Unknown fields are an
// explicit error, never forwarded.
func (s Schema) BuildPatch(field, value string) (notion.Properties, error) {
	switch field {
	case FieldStatus, s.StatusProp:
		return notion.Properties{
			s.StatusProp: {Status: &notion.Option{Name: value}},
		}, nil
	case FieldCategory, s.CategoryProp:
		return notion.Properties{
			s.CategoryProp: {Select: &notion.Option{Name: value}},
		}, nil
	case FieldDate, s.DateProp:
		return notion.Properties{
			s.DateProp: {Date: &notion.Date{Start: value}},
		}, nil
	case FieldNotes, s.NotesProp:
		return notion.Properties{
			s.NotesProp: {RichText: []notion.RichText{{Text: &notion.Text{Content: value}}}},
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedField, field)
}
