package testutil

import (
	"fmt"
	"time"

	"ndexplorer/internal/models"
)

func rec(ts, domain, root, tracker, protocol string, status models.Status, device string) models.LogRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.LogRecord{
		Timestamp: t,
		Domain:    domain,
		Root:      root,
		Tracker:   tracker,
		Protocol:  protocol,
		Status:    status,
		Device:    &models.LogDevice{Name: device},
	}
}

// MockLogs is a fixed set of 17 records spread over two weeks in February
// 2026. Nine of them carry a tracker.
func MockLogs() []models.LogRecord {
	return []models.LogRecord{
		rec("2026-02-11T08:12:00Z", "app.fake-analytics.xyz", "fake-analytics.xyz", "FakeTrackerLol", "DNS-over-HTTPS", models.StatusBlocked, "DEVICE_1"),
		rec("2026-02-11T09:30:00Z", "cdn.placeholder.test", "placeholder.test", "", "DNS-over-HTTPS", models.StatusDefault, "DEVICE_2"),
		rec("2026-02-11T10:45:00Z", "api.mockservice.dev", "mockservice.dev", "", "DNS-over-TLS", models.StatusAllowed, "DEVICE_1"),
		rec("2026-02-11T11:00:00Z", "ads.spamnetwork.fake", "spamnetwork.fake", "SpamTracker", "UDP", models.StatusBlocked, "DEVICE_2"),
		rec("2026-02-11T14:22:00Z", "pixel.sneakycorp.xyz", "sneakycorp.xyz", "SneakyCorp", "DNS-over-HTTPS", models.StatusBlocked, "DEVICE_1"),

		rec("2026-02-08T06:10:00Z", "mail.safemail.test", "safemail.test", "", "DNS-over-QUIC", models.StatusAllowed, "DEVICE_2"),
		rec("2026-02-08T18:55:00Z", "telemetry.bogusapp.fake", "bogusapp.fake", "BogusMetrics", "DNS-over-TLS", models.StatusBlocked, "DEVICE_1"),

		rec("2026-02-13T07:00:00Z", "static.dummycdn.xyz", "dummycdn.xyz", "", "DNS-over-HTTPS", models.StatusDefault, "DEVICE_1"),
		rec("2026-02-13T12:30:00Z", "track.admonster.fake", "admonster.fake", "AdMonster", "UDP", models.StatusBlocked, "DEVICE_2"),

		rec("2026-02-04T22:15:00Z", "home.localnet.test", "localnet.test", "", "UDP", models.StatusDefault, "DEVICE_2"),
		rec("2026-02-04T23:00:00Z", "spy.creepytracker.xyz", "creepytracker.xyz", "CreepyTracker", "DNS-over-TLS", models.StatusBlocked, "DEVICE_1"),

		rec("2026-02-16T15:45:00Z", "img.fakesocial.dev", "fakesocial.dev", "FakeSocial", "DNS-over-HTTPS", models.StatusAllowed, "DEVICE_2"),
		rec("2026-02-16T16:00:00Z", "broken.nowhere.invalid", "nowhere.invalid", "", "UDP", models.StatusError, "DEVICE_1"),

		rec("2026-02-06T03:20:00Z", "sync.dataslurp.fake", "dataslurp.fake", "DataSlurp", "DNS-over-HTTPS", models.StatusBlocked, "DEVICE_2"),
		rec("2026-02-06T11:10:00Z", "docs.cleansite.test", "cleansite.test", "", "DNS-over-TLS", models.StatusAllowed, "DEVICE_1"),

		rec("2026-02-18T09:00:00Z", "beacon.megaspy.xyz", "megaspy.xyz", "MegaSpy", "UDP", models.StatusBlocked, "DEVICE_1"),
		rec("2026-02-18T20:30:00Z", "files.legit-storage.dev", "legit-storage.dev", "", "DNS-over-QUIC", models.StatusDefault, "DEVICE_2"),
	}
}

// TrackerSample is the five-record example used to describe the local
// filters: three of them carry a tracker.
func TrackerSample() []models.LogRecord {
	all := MockLogs()
	return []models.LogRecord{all[0], all[1], all[2], all[3], all[4]}
}

// Paginate splits records into pages of size n chained by cursors "c1",
// "c2"... The first page is keyed by the empty cursor.
func Paginate(records []models.LogRecord, n int) map[string]models.Page {
	pages := make(map[string]models.Page)
	for i, start := 0, 0; start < len(records) || i == 0; i, start = i+1, start+n {
		end := min(start+n, len(records))
		key := ""
		if i > 0 {
			key = fmt.Sprintf("c%d", i)
		}
		var next models.Cursor
		if end < len(records) {
			next = models.Cursor(fmt.Sprintf("c%d", i+1))
		}
		pages[key] = models.Page{Records: append([]models.LogRecord{}, records[start:end]...), NextCursor: next}
	}
	return pages
}

func Devices() []models.Device {
	return []models.Device{
		{ID: "dev1", Name: "DEVICE_1"},
		{ID: "dev2", Name: "DEVICE_2", Model: "Pixel"},
		{ID: models.UnidentifiedDeviceID},
	}
}
