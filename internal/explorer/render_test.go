package explorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"ndexplorer/internal/models"
	"ndexplorer/internal/testutil"
)

func TestShortenProtocol(t *testing.T) {
	cases := map[string]string{
		"DNS-over-HTTPS": "DoH",
		"DNS-over-TLS":   "DoT",
		"DNS-over-QUIC":  "DoQ",
		"UDP":            "UDP",
		"TCP":            "TCP",
		"":               Placeholder,
		"carrier-pigeon": Placeholder,
	}
	for in, want := range cases {
		assert.Equal(t, want, ShortenProtocol(in), in)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 2, 11, 8, 12, 5, 0, time.UTC)

	assert.Equal(t, "11.02.2026 08:12:05", FormatTimestamp(ts, time.UTC))
	assert.Equal(t, "11.02.2026 10:12:05", FormatTimestamp(ts, time.FixedZone("EET", 2*3600)))
	assert.Equal(t, Placeholder, FormatTimestamp(time.Time{}, time.UTC))
}

func TestSplitDomain(t *testing.T) {
	prefix, root := SplitDomain("app.fake-analytics.xyz", "fake-analytics.xyz")
	assert.Equal(t, "app.", prefix)
	assert.Equal(t, "fake-analytics.xyz", root)

	prefix, root = SplitDomain("example.com", "example.com")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "example.com", root)

	prefix, root = SplitDomain("a.b.a.b", "a.b")
	assert.Equal(t, "a.b.", prefix, "root is matched at its last occurrence")
	assert.Equal(t, "a.b", root)

	prefix, root = SplitDomain("cdn.other.test", "placeholder.test")
	assert.Equal(t, "cdn.other.test", prefix)
	assert.Empty(t, root)

	prefix, root = SplitDomain("cdn.other.test", "")
	assert.Equal(t, "cdn.other.test", prefix)
	assert.Empty(t, root)
}

func TestNewRow(t *testing.T) {
	r := testutil.MockLogs()[1]

	row := NewRow(r, time.UTC)

	assert.Equal(t, "11.02.2026 09:30:00", row.Time)
	assert.Equal(t, "cdn.placeholder.test", row.Domain)
	assert.Equal(t, Placeholder, row.Tracker)
	assert.Equal(t, "DoH", row.Protocol)
	assert.Equal(t, models.StatusDefault, row.Status)
	assert.Equal(t, "DEVICE_2", row.Device)
}

func TestNewRow_DeviceFallbacks(t *testing.T) {
	r := models.LogRecord{Device: &models.LogDevice{Model: "iPhone"}}
	assert.Equal(t, "iPhone", NewRow(r, time.UTC).Device)

	r.Device = nil
	row := NewRow(r, time.UTC)
	assert.Equal(t, Placeholder, row.Device)
	assert.Equal(t, Placeholder, row.Domain)
	assert.Equal(t, Placeholder, row.Root)
}

func TestNewSnapshot(t *testing.T) {
	s := NewState(0, time.UTC)
	req := s.Accumulator.Reset(models.Query{})
	s.Accumulator.Commit(req.Token, models.Page{Records: testutil.TrackerSample()})
	s.Filters = models.LocalFilterState{TrackerQuery: "sneaky"}

	snap := NewSnapshot(s)

	assert.Equal(t, "1 / 5", snap.Counter)
	assert.True(t, snap.EndReached)
	assert.False(t, snap.Empty)
	assert.False(t, snap.Loading)
	assert.False(t, snap.RefreshEnabled)
}
