package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndexplorer/internal/apiclient"
	"ndexplorer/internal/controllers"
	"ndexplorer/internal/models"
	"ndexplorer/internal/scheduler"
	"ndexplorer/internal/services"
	"ndexplorer/internal/structures"
	"ndexplorer/internal/testutil"
)

func testAppConfig() *structures.Config {
	return &structures.Config{
		AppName:   "NDExplorer",
		WebServer: structures.Server{Host: "127.0.0.1", Port: 8080},
		NextDNS: structures.NextDNSConfig{
			BaseURL:   "https://api.nextdns.io",
			APIKey:    "key",
			ProfileID: "abc123",
			Timeout:   time.Second,
		},
		Viewer: structures.ViewerConfig{APIURL: "http://127.0.0.1:8080", ScrollThreshold: 10},
	}
}

func newTestApp(t *testing.T, conf *structures.Config, logger *testutil.MockLogger, metrics *testutil.MockMetrics) *App {
	t.Helper()
	source := &testutil.MockLogSource{
		DevicesList:   testutil.Devices(),
		PagesByCursor: testutil.Paginate(testutil.MockLogs(), 10),
	}
	ac := controllers.NewApiController(logger, source, testutil.NewMockCache(), metrics)
	hc := controllers.NewHealthController(conf)

	sched := scheduler.NewScheduler(conf, logger, ac)

	app, err := NewApp(ac, hc, sched, conf, logger, InitRoutes(ac), metrics)
	require.NoError(t, err)
	return app
}

func TestNewApp_ServesLogsThroughMiddleware(t *testing.T) {
	metrics := testutil.NewMockMetrics()
	app := newTestApp(t, testAppConfig(), &testutil.MockLogger{}, metrics)
	assert.Equal(t, "127.0.0.1:8080", app.WebServer.Addr)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.LogsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 10)
	assert.Equal(t, models.Cursor("c1"), resp.NextCursor())
	assert.Equal(t, 1, metrics.Requests["/api/logs"])
}

func TestNewApp_HealthIsNotInstrumented(t *testing.T) {
	metrics := testutil.NewMockMetrics()
	app := newTestApp(t, testAppConfig(), &testutil.MockLogger{}, metrics)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, metrics.Requests["/health"])
}

func TestNewApp_MetricsRouteOnlyWhenEnabled(t *testing.T) {
	app := newTestApp(t, testAppConfig(), &testutil.MockLogger{}, testutil.NewMockMetrics())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	conf := testAppConfig()
	conf.Metrics.Enabled = true
	app = newTestApp(t, conf, &testutil.MockLogger{}, testutil.NewMockMetrics())

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestNewApp_WarnsWithoutCredentials(t *testing.T) {
	conf := testAppConfig()
	conf.NextDNS.APIKey = ""
	logger := &testutil.MockLogger{}

	newTestApp(t, conf, logger, testutil.NewMockMetrics())
	assert.Equal(t, 1, logger.Count("error"))
}

func TestNewLogSource_PicksBackend(t *testing.T) {
	conf := testAppConfig()
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()

	direct := NewLogSource(conf, &structures.CliFlags{Direct: true}, logger, metrics)
	assert.IsType(t, &services.LogService{}, direct)

	proxied := NewLogSource(conf, &structures.CliFlags{APIURL: "http://proxy:9000"}, logger, metrics)
	assert.IsType(t, &apiclient.Client{}, proxied)
}

func TestViewer_NewDispatcher(t *testing.T) {
	conf := testAppConfig()
	source := &testutil.MockLogSource{DevicesList: testutil.Devices()}
	v := NewViewer(conf, &testutil.MockLogger{}, source)

	d := v.NewDispatcher(nil, nil)
	require.NotNil(t, d)
	assert.Equal(t, 0, source.DevicesCalls)
}
