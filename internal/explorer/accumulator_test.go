package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndexplorer/internal/models"
	"ndexplorer/internal/testutil"
)

func TestAccumulator_ResetMintsNewToken(t *testing.T) {
	var acc Accumulator

	first := acc.Reset(models.Query{Preset: models.Preset1h})
	second := acc.Reset(models.Query{Preset: models.Preset24h})

	assert.Equal(t, uint64(1), first.Token)
	assert.Equal(t, uint64(2), second.Token)
	assert.Equal(t, ModeReset, second.Mode)
	assert.Equal(t, second.Token, acc.Session.Token)
	assert.Equal(t, models.Preset24h, acc.Session.Query.Preset)
	assert.True(t, acc.Fetching(ModeReset))
}

func TestAccumulator_CommitFirstPageThenAppend(t *testing.T) {
	pages := testutil.Paginate(testutil.MockLogs(), 10)
	var acc Accumulator

	req := acc.Reset(models.Query{})
	require.True(t, acc.Commit(req.Token, pages[""]))
	assert.Len(t, acc.Session.Records, 10)
	assert.Equal(t, models.Cursor("c1"), acc.Session.Cursor)
	assert.False(t, acc.Session.Exhausted)
	assert.Nil(t, acc.Pending)

	next, ok := acc.BeginAppend()
	require.True(t, ok)
	assert.Equal(t, ModeAppend, next.Mode)
	assert.Equal(t, models.Cursor("c1"), next.Cursor)
	assert.Equal(t, req.Token, next.Token)

	require.True(t, acc.Commit(next.Token, pages["c1"]))
	assert.Len(t, acc.Session.Records, 17)
	assert.Equal(t, 17, acc.Session.TotalSeen)
	assert.True(t, acc.Session.Exhausted)
	assert.True(t, acc.EndReached())
	assert.Equal(t, testutil.MockLogs()[16].Domain, acc.Session.Records[16].Domain)
}

func TestAccumulator_BeginAppendGuards(t *testing.T) {
	var acc Accumulator

	_, ok := acc.BeginAppend()
	assert.False(t, ok, "no append before the first search")

	req := acc.Reset(models.Query{})
	_, ok = acc.BeginAppend()
	assert.False(t, ok, "no append while the reset is in flight")

	acc.Commit(req.Token, models.Page{Records: testutil.MockLogs()[:2]})
	_, ok = acc.BeginAppend()
	assert.False(t, ok, "no append once the cursor is exhausted")
}

func TestAccumulator_StaleResponseDropped(t *testing.T) {
	var acc Accumulator
	old := acc.Reset(models.Query{Preset: models.Preset1h})
	current := acc.Reset(models.Query{Preset: models.Preset3d})

	assert.False(t, acc.Commit(old.Token, models.Page{Records: testutil.MockLogs()}))
	assert.Empty(t, acc.Session.Records)
	assert.Equal(t, 1, acc.Dropped)
	assert.True(t, acc.Fetching(ModeReset))

	assert.True(t, acc.Commit(current.Token, models.Page{Records: testutil.MockLogs()[:3]}))
	assert.Len(t, acc.Session.Records, 3)
}

func TestAccumulator_AppendInFlightSupersededByReset(t *testing.T) {
	pages := testutil.Paginate(testutil.MockLogs(), 5)
	var acc Accumulator

	first := acc.Reset(models.Query{})
	acc.Commit(first.Token, pages[""])
	appendReq, ok := acc.BeginAppend()
	require.True(t, ok)

	reset := acc.Reset(models.Query{Status: models.StatusBlocked})
	assert.False(t, acc.Commit(appendReq.Token, pages["c1"]))
	assert.Empty(t, acc.Session.Records)

	acc.Commit(reset.Token, pages[""])
	assert.Len(t, acc.Session.Records, 5)
	assert.Equal(t, models.StatusBlocked, acc.Session.Query.Status)
}

func TestAccumulator_FailKeepsRecordsAndCursor(t *testing.T) {
	pages := testutil.Paginate(testutil.MockLogs(), 5)
	var acc Accumulator

	req := acc.Reset(models.Query{})
	acc.Commit(req.Token, pages[""])
	appendReq, _ := acc.BeginAppend()

	assert.True(t, acc.Fail(appendReq.Token))
	assert.Len(t, acc.Session.Records, 5)
	assert.Equal(t, models.Cursor("c1"), acc.Session.Cursor)
	assert.Nil(t, acc.Pending)
	assert.True(t, acc.CanAppend(), "a failed page can be retried")
}

func TestAccumulator_EmptyResultIsTerminal(t *testing.T) {
	var acc Accumulator
	req := acc.Reset(models.Query{})
	assert.False(t, acc.Empty())

	acc.Commit(req.Token, models.Page{})

	assert.True(t, acc.Empty())
	assert.False(t, acc.EndReached())
	assert.NotNil(t, acc.Session.Records)
	assert.False(t, acc.CanAppend())
}

func TestAccumulator_CommitDoesNotAliasPage(t *testing.T) {
	records := testutil.MockLogs()[:3]
	var acc Accumulator
	req := acc.Reset(models.Query{})
	acc.Commit(req.Token, models.Page{Records: records})

	records[0].Domain = "mutated.example"
	assert.Equal(t, "app.fake-analytics.xyz", acc.Session.Records[0].Domain)
}
