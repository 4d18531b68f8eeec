package controllers

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
	"ndexplorer/internal/services"
)

const devicesCacheKey = "devices"

type ApiController struct {
	logger  providers.Logger
	service services.LogServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, service services.LogServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	appErr := models.AsAppError(err)
	status := http.StatusInternalServerError
	if appErr.Kind() == models.KindValidation {
		status = http.StatusBadRequest
		ac.metrics.IncValidationFailures(appErr.Detail)
	}
	ac.logger.Warnf(providers.TypeApi, "Request failed: %s", appErr)

	gson, mErr := json.Marshal(models.NewErrorResponse(appErr))
	if mErr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.writeError(w, err)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

// GetDevices serves GET /api/devices. The device list changes rarely, so the
// encoded payload is cached.
func (ac *ApiController) GetDevices(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, devicesCacheKey, func() (any, error) {
		devices, err := ac.service.Devices(r.Context())
		if err != nil {
			return nil, err
		}
		return models.DevicesResponse{Data: devices}, nil
	})
}

// GetLogs serves GET /api/logs. Pages are never cached: the 1h window moves
// with every refresh and cursors are single-use continuations.
func (ac *ApiController) GetLogs(w http.ResponseWriter, r *http.Request) {
	params := nextdns.ParamsFromQuery(r.URL.Query())
	page, err := ac.service.Logs(r.Context(), params)
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(models.NewLogsResponse(page))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}

// WarmDevices refetches the device list and replaces the cached payload so
// /api/devices keeps answering from cache.
func (ac *ApiController) WarmDevices(ctx context.Context) error {
	devices, err := ac.service.Devices(ctx)
	if err != nil {
		return err
	}
	gson, err := json.Marshal(models.DevicesResponse{Data: devices})
	if err != nil {
		return err
	}
	ac.cache.Set(devicesCacheKey, gson)
	return nil
}
