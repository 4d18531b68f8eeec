package models

// Session is the accumulated result set and pagination state for one query.
type Session struct {
	Token     uint64      `json:"token"`
	Query     Query       `json:"query"`
	Records   []LogRecord `json:"records"`
	Cursor    Cursor      `json:"cursor,omitempty"`
	Exhausted bool        `json:"exhausted"`
	TotalSeen int         `json:"totalSeen"`
}

type LocalFilterState struct {
	HideTrackers bool   `json:"hideTrackers"`
	DomainQuery  string `json:"domainQuery,omitempty"`
	TrackerQuery string `json:"trackerQuery,omitempty"`
}

type AutoRefreshState struct {
	Interval  int    `json:"interval,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Token     uint64 `json:"token,omitempty"`
}

func (s AutoRefreshState) Running() bool {
	return s.Interval > 0
}
