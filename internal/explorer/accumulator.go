package explorer

import (
	"slices"

	"ndexplorer/internal/models"
)

type FetchMode int

const (
	ModeReset FetchMode = iota + 1
	ModeAppend
)

func (m FetchMode) String() string {
	switch m {
	case ModeReset:
		return "reset"
	case ModeAppend:
		return "append"
	default:
		return "none"
	}
}

// FetchRequest describes one outstanding fetch. Token is the generation of
// the session the response belongs to.
type FetchRequest struct {
	Token  uint64        `json:"token"`
	Mode   FetchMode     `json:"mode"`
	Query  models.Query  `json:"query"`
	Cursor models.Cursor `json:"cursor,omitempty"`
}

// Accumulator owns the active Session. Every reset mints a new generation
// token; responses carrying an older token are dropped on arrival. At most
// one fetch is outstanding at a time.
type Accumulator struct {
	Session    models.Session `json:"session"`
	Pending    *FetchRequest  `json:"pending,omitempty"`
	Generation uint64         `json:"generation"`
	Started    bool           `json:"started"`
	Dropped    int            `json:"dropped"`
}

// Reset discards the current session and binds a new one to q. Any
// outstanding fetch is superseded.
func (a *Accumulator) Reset(q models.Query) FetchRequest {
	a.Generation++
	a.Session = models.Session{
		Token:   a.Generation,
		Query:   q,
		Records: []models.LogRecord{},
	}
	a.Started = true
	req := FetchRequest{Token: a.Generation, Mode: ModeReset, Query: q}
	a.Pending = &req
	return req
}

// BeginAppend reserves the next page of the current session. It refuses when
// a fetch is in flight, before the first search, and once exhausted.
func (a *Accumulator) BeginAppend() (FetchRequest, bool) {
	if !a.CanAppend() {
		return FetchRequest{}, false
	}
	req := FetchRequest{
		Token:  a.Session.Token,
		Mode:   ModeAppend,
		Query:  a.Session.Query,
		Cursor: a.Session.Cursor,
	}
	a.Pending = &req
	return req, true
}

func (a *Accumulator) CanAppend() bool {
	return a.Started && a.Pending == nil && !a.Session.Exhausted && !a.Session.Cursor.Exhausted()
}

func (a *Accumulator) owns(token uint64) bool {
	return a.Pending != nil && a.Pending.Token == token && a.Session.Token == token
}

// Commit applies a page atomically if it belongs to the pending fetch of the
// current session. It reports false when the response was stale.
func (a *Accumulator) Commit(token uint64, page models.Page) bool {
	if !a.owns(token) {
		a.Dropped++
		return false
	}

	switch a.Pending.Mode {
	case ModeAppend:
		a.Session.Records = slices.Concat(a.Session.Records, page.Records)
	default:
		a.Session.Records = slices.Clone(page.Records)
		if a.Session.Records == nil {
			a.Session.Records = []models.LogRecord{}
		}
	}
	a.Session.Cursor = page.NextCursor
	a.Session.Exhausted = page.NextCursor.Exhausted()
	a.Session.TotalSeen = len(a.Session.Records)
	a.Pending = nil
	return true
}

// Fail clears the in-flight marker of a failed fetch and keeps the records
// and cursor untouched. Stale failures are dropped like stale pages.
func (a *Accumulator) Fail(token uint64) bool {
	if !a.owns(token) {
		a.Dropped++
		return false
	}
	a.Pending = nil
	return true
}

func (a *Accumulator) Fetching(mode FetchMode) bool {
	return a.Pending != nil && a.Pending.Mode == mode
}

// Empty is the terminal zero-result state, distinct from a failed search.
func (a *Accumulator) Empty() bool {
	return a.Started && a.Pending == nil && a.Session.Exhausted && len(a.Session.Records) == 0
}

// EndReached means every page was loaded and there is something to show.
func (a *Accumulator) EndReached() bool {
	return a.Started && a.Pending == nil && a.Session.Exhausted && len(a.Session.Records) > 0
}
