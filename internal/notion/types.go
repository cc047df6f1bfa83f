package notion

// Page is a raw page object as returned by the Notion API. Only the fields
// this service reads are modelled; everything else in the payload is dropped
// on decode.
type Page struct {
	Object     string              `json:"object,omitempty"`
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Archived   bool                `json:"archived"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// Property is a single property value on a page. Exactly one of the typed
// fields is populated depending on the property type. The same struct is
// used both for reading pages and for building create/update payloads.
type Property struct {
	Type     string     `json:"type,omitempty"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Status   *Option    `json:"status,omitempty"`
	Select   *Option    `json:"select,omitempty"`
	Date     *Date      `json:"date,omitempty"`
}

// Properties is the properties object sent on page create/update.
type Properties map[string]Property

// RichText is one fragment of a title or rich_text value. The API returns
// plain_text; outgoing payloads carry text.content.
type RichText struct {
	Type      string `json:"type,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
	Text      *Text  `json:"text,omitempty"`
}

// Text is the writable content of a rich text fragment.
type Text struct {
	Content string `json:"content"`
}

// Option is the named value of a status or select property.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Date is a date property value. Only the start date is used here.
type Date struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Filter is a database query filter. Leaf filters set Property plus exactly
// one condition; compound filters set And or Or.
type Filter struct {
	Property string           `json:"property,omitempty"`
	Title    *TextCondition   `json:"title,omitempty"`
	RichText *TextCondition   `json:"rich_text,omitempty"`
	Status   *EqualsCondition `json:"status,omitempty"`
	Select   *EqualsCondition `json:"select,omitempty"`
	Date     *DateCondition   `json:"date,omitempty"`
	And      []Filter         `json:"and,omitempty"`
	Or       []Filter         `json:"or,omitempty"`
}

// TextCondition matches title/rich_text properties.
type TextCondition struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

// EqualsCondition matches status/select properties by option name.
type EqualsCondition struct {
	Equals string `json:"equals,omitempty"`
}

// DateCondition matches date properties.
type DateCondition struct {
	Equals     string `json:"equals,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
	OnOrAfter  string `json:"on_or_after,omitempty"`
}

// Query is the body of a database query request. Filter and Sorts are typed
// as any so planner-supplied raw JSON can be forwarded verbatim alongside
// filters built from *Filter.
type Query struct {
	Filter   any    `json:"filter,omitempty"`
	Sorts    any    `json:"sorts,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Cursor   string `json:"start_cursor,omitempty"`
}

// Sort orders query results by a property or timestamp.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

// QueryResponse is the result page of a database query.
type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// SchemaProperty describes one property in the database schema.
type SchemaProperty struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// Database is the subset of the database object used by describe.
type Database struct {
	ID         string                    `json:"id"`
	URL        string                    `json:"url,omitempty"`
	Properties map[string]SchemaProperty `json:"properties"`
}
