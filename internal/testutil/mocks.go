package testutil

import (
	"context"
	"sync"
	"time"

	"ndexplorer/internal/models"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockLogSource implements services.LogServiceInterface, which is also what
// the explorer consumes. Pages are served by cursor from PagesByCursor unless
// LogsFn is set.
type MockLogSource struct {
	mu            sync.Mutex
	DevicesList   []models.Device
	DevicesErr    error
	PagesByCursor map[string]models.Page
	LogsErr       error
	LogsFn        func(ctx context.Context, params nextdns.LogsParams) (models.Page, error)
	LogsCalls     []nextdns.LogsParams
	DevicesCalls  int
}

func (m *MockLogSource) Devices(_ context.Context) ([]models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DevicesCalls++
	if m.DevicesErr != nil {
		return nil, m.DevicesErr
	}
	return m.DevicesList, nil
}

func (m *MockLogSource) Logs(ctx context.Context, params nextdns.LogsParams) (models.Page, error) {
	m.mu.Lock()
	m.LogsCalls = append(m.LogsCalls, params)
	fn := m.LogsFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, params)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LogsErr != nil {
		return models.Page{}, m.LogsErr
	}
	return m.PagesByCursor[params.Cursor], nil
}

func (m *MockLogSource) Calls() []nextdns.LogsParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]nextdns.LogsParams, len(m.LogsCalls))
	copy(out, m.LogsCalls)
	return out
}

// MockClient implements nextdns.ClientInterface.
type MockClient struct {
	mu           sync.Mutex
	DevicesResp  *models.DevicesResponse
	DevicesErr   error
	LogsResp     *models.LogsResponse
	LogsErr      error
	LogsCalls    []nextdns.LogsParams
	DevicesCalls int
}

func (m *MockClient) Devices(_ context.Context) (*models.DevicesResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DevicesCalls++
	if m.DevicesErr != nil {
		return nil, m.DevicesErr
	}
	if m.DevicesResp == nil {
		return &models.DevicesResponse{}, nil
	}
	return m.DevicesResp, nil
}

func (m *MockClient) Logs(_ context.Context, params nextdns.LogsParams) (*models.LogsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogsCalls = append(m.LogsCalls, params)
	if m.LogsErr != nil {
		return nil, m.LogsErr
	}
	if m.LogsResp == nil {
		return &models.LogsResponse{}, nil
	}
	return m.LogsResp, nil
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                 sync.Mutex
	Requests           map[string]int
	CacheHits          int
	CacheMisses        int
	UpstreamCalls      map[string]int
	ValidationFailures map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:           make(map[string]int),
		UpstreamCalls:      make(map[string]int),
		ValidationFailures: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObserveUpstreamCall(endpoint string, code string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpstreamCalls[endpoint+":"+code]++
}

func (m *MockMetrics) IncValidationFailures(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationFailures[field]++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}
