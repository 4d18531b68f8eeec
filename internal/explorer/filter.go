package explorer

import (
	"fmt"
	"strings"

	"ndexplorer/internal/models"
)

type FilterResult struct {
	Visible      []models.LogRecord `json:"visible"`
	VisibleCount int                `json:"visibleCount"`
	Total        int                `json:"total"`
	Active       bool               `json:"active"`
}

// CounterLabel shows "visible / total" while any local filter is active.
func (r FilterResult) CounterLabel() string {
	if r.Active {
		return fmt.Sprintf("%d / %d", r.VisibleCount, r.Total)
	}
	return fmt.Sprintf("%d", r.Total)
}

// ApplyFilters computes the visible subset of records. It never mutates
// records and never touches the network.
func ApplyFilters(records []models.LogRecord, st models.LocalFilterState) FilterResult {
	domainQuery := strings.ToLower(strings.TrimSpace(st.DomainQuery))
	trackerQuery := strings.ToLower(strings.TrimSpace(st.TrackerQuery))

	res := FilterResult{
		Visible: make([]models.LogRecord, 0, len(records)),
		Total:   len(records),
		Active:  st.HideTrackers || domainQuery != "" || trackerQuery != "",
	}

	for i := range records {
		if matches(&records[i], st.HideTrackers, domainQuery, trackerQuery) {
			res.Visible = append(res.Visible, records[i])
		}
	}
	res.VisibleCount = len(res.Visible)
	return res
}

func matches(r *models.LogRecord, hideTrackers bool, domainQuery, trackerQuery string) bool {
	if hideTrackers && r.HasTracker() {
		return false
	}
	if domainQuery != "" && !strings.Contains(strings.ToLower(r.Domain), domainQuery) {
		return false
	}
	if trackerQuery != "" && !strings.Contains(strings.ToLower(r.Tracker), trackerQuery) {
		return false
	}
	return true
}
