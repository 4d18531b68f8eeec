package explorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndexplorer/internal/models"
	"ndexplorer/internal/testutil"
)

func TestApplyFilters_NoFilters(t *testing.T) {
	res := ApplyFilters(testutil.MockLogs(), models.LocalFilterState{})

	assert.Equal(t, 17, res.VisibleCount)
	assert.Equal(t, 17, res.Total)
	assert.False(t, res.Active)
	assert.Equal(t, "17", res.CounterLabel())
}

func TestApplyFilters_HideTrackers(t *testing.T) {
	res := ApplyFilters(testutil.TrackerSample(), models.LocalFilterState{HideTrackers: true})

	assert.Equal(t, 2, res.VisibleCount)
	for _, r := range res.Visible {
		assert.Empty(t, r.Tracker)
	}
	assert.Equal(t, "2 / 5", res.CounterLabel())
}

func TestApplyFilters_TrackerQuery(t *testing.T) {
	res := ApplyFilters(testutil.TrackerSample(), models.LocalFilterState{TrackerQuery: "sneaky"})

	require.Equal(t, 1, res.VisibleCount)
	assert.Equal(t, "SneakyCorp", res.Visible[0].Tracker)
}

func TestApplyFilters_DomainQuery(t *testing.T) {
	res := ApplyFilters(testutil.MockLogs(), models.LocalFilterState{DomainQuery: "FAKE"})

	assert.Greater(t, res.VisibleCount, 0)
	assert.Less(t, res.VisibleCount, res.Total)
	for _, r := range res.Visible {
		assert.Contains(t, strings.ToLower(r.Domain), "fake")
	}
}

func TestApplyFilters_DomainQueryNoMatch(t *testing.T) {
	res := ApplyFilters(testutil.MockLogs(), models.LocalFilterState{DomainQuery: "zzz-nonexistent"})

	assert.Equal(t, 0, res.VisibleCount)
	assert.Empty(t, res.Visible)
	assert.Equal(t, "0 / 17", res.CounterLabel())
}

func TestApplyFilters_QueriesAreTrimmed(t *testing.T) {
	res := ApplyFilters(testutil.MockLogs(), models.LocalFilterState{DomainQuery: "   "})

	assert.False(t, res.Active)
	assert.Equal(t, 17, res.VisibleCount)
}

func TestApplyFilters_Combined(t *testing.T) {
	res := ApplyFilters(testutil.MockLogs(), models.LocalFilterState{
		HideTrackers: true,
		DomainQuery:  "test",
	})

	for _, r := range res.Visible {
		assert.Empty(t, r.Tracker)
		assert.Contains(t, r.Domain, "test")
	}
	assert.Equal(t, 4, res.VisibleCount)
}

func TestApplyFilters_DoesNotMutateRecords(t *testing.T) {
	records := testutil.MockLogs()
	before := len(records)

	_ = ApplyFilters(records, models.LocalFilterState{HideTrackers: true})

	assert.Len(t, records, before)
	assert.Equal(t, "FakeTrackerLol", records[0].Tracker)
}
