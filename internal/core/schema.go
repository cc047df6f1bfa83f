package core

// Semantic field names accepted by BuildPatch and filter translation.
const (
	FieldTitle    = "title"
	FieldStatus   = "status"
	FieldCategory = "category"
	FieldDate     = "date"
	FieldNotes    = "notes"
)

// Schema names the store-side properties and status labels of the tasks
// database. Property names and option labels are defined by the workspace,
// not by this service; the defaults below match the database this project
// was built against.
type Schema struct {
	TitleProp     string
	StatusProp    string
	CategoryProp  string
	DateProp      string
	NotesProp     string
	EventDateProp string
	LocationProp  string

	// DoneStatus is the status label the complete operation sets.
	DoneStatus string
	// DefaultStatus is assigned to newly created tasks.
	DefaultStatus string
}

// DefaultSchema returns the property names of the original workspace.
func DefaultSchema() Schema {
	return Schema{
		TitleProp:     "할 일",
		StatusProp:    "상태",
		CategoryProp:  "카테고리",
		DateProp:      "날짜",
		NotesProp:     "메모",
		EventDateProp: "이벤트 날짜",
		LocationProp:  "장소",
		DoneStatus:    "완료",
		DefaultStatus: "시작 전",
	}
}

// canonicalProp maps a semantic field name to its store property name.
// Planner output may use either; store property names pass through.
func (s Schema) canonicalProp(property string) string {
	switch property {
	case FieldTitle:
		return s.TitleProp
	case FieldStatus:
		return s.StatusProp
	case FieldCategory:
		return s.CategoryProp
	case FieldDate:
		return s.DateProp
	case FieldNotes:
		return s.NotesProp
	}
	return property
}

// isDateProp reports whether the property holds a calendar date.
func (s Schema) isDateProp(property string) bool {
	p := s.canonicalProp(property)
	return p == s.DateProp || p == s.EventDateProp
}
