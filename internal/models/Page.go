package models

// Cursor is the opaque continuation token issued by the logs API.
// The empty cursor means there are no further pages.
type Cursor string

func (c Cursor) Exhausted() bool {
	return c == ""
}

// Page is one normalized response of the logs endpoint.
type Page struct {
	Records    []LogRecord
	NextCursor Cursor
}

type Pagination struct {
	Cursor *string `json:"cursor"`
}

type LogsMeta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// LogsResponse is the wire shape shared by NextDNS and the proxy.
type LogsResponse struct {
	Data []LogRecord `json:"data"`
	Meta *LogsMeta   `json:"meta,omitempty"`
}

func (r *LogsResponse) NextCursor() Cursor {
	if r.Meta == nil || r.Meta.Pagination == nil || r.Meta.Pagination.Cursor == nil {
		return ""
	}
	return Cursor(*r.Meta.Pagination.Cursor)
}

func (r *LogsResponse) ToPage() Page {
	records := r.Data
	if records == nil {
		records = []LogRecord{}
	}
	return Page{Records: records, NextCursor: r.NextCursor()}
}

func NewLogsResponse(p Page) LogsResponse {
	var cursor *string
	if !p.NextCursor.Exhausted() {
		c := string(p.NextCursor)
		cursor = &c
	}
	data := p.Records
	if data == nil {
		data = []LogRecord{}
	}
	return LogsResponse{
		Data: data,
		Meta: &LogsMeta{Pagination: &Pagination{Cursor: cursor}},
	}
}
