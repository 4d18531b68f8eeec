package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndexplorer/internal/controllers"
	"ndexplorer/internal/testutil"
)

func newTestApiController() *controllers.ApiController {
	source := &testutil.MockLogSource{DevicesList: testutil.Devices()}
	return controllers.NewApiController(&testutil.MockLogger{}, source, testutil.NewMockCache(), testutil.NewMockMetrics())
}

func TestInitRoutes_RegistersReadOnlyRoutes(t *testing.T) {
	router := InitRoutes(newTestApiController())
	routes := router.GetRoutes()

	require.Len(t, routes, 2)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/api/logs")
	assert.Contains(t, urls, "/api/devices")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(newTestApiController())

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	for _, path := range []string{"/api/logs", "/api/devices"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
