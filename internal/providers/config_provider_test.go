package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndexplorer/internal/structures"
)

const testConfigYAML = `webServer:
  host: 127.0.0.1
  port: 8080
logger:
  level: info
  mode: 0644
  dir: /tmp/ndx-logs
nextdns:
  baseUrl: https://api.nextdns.io
  apiKey: from-file
  profileId: abc123
  logsLimit: 5000
cache:
  enabled: true
  size: 4
metrics:
  enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfigProvider_LoadsFileAndDefaults(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "NDExplorer", conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, 8080, conf.WebServer.Port)
	assert.Equal(t, "from-file", conf.NextDNS.APIKey)
	assert.Equal(t, "abc123", conf.NextDNS.ProfileID)
	assert.Equal(t, maxLogsLimit, conf.NextDNS.LogsLimit)
	assert.Equal(t, 15*time.Second, conf.NextDNS.Timeout)
	assert.Equal(t, 5*time.Minute, conf.Cache.TTL)
	assert.Equal(t, "http://127.0.0.1:8080", conf.Viewer.APIURL)
	assert.Equal(t, 10, conf.Viewer.ScrollThreshold)
	assert.Equal(t, 100*time.Millisecond, conf.Viewer.ScrollThrottle)
}

func TestNewConfigProvider_EnvOverridesCredentials(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("NEXTDNS_API_KEY", "from-env")
	t.Setenv("NEXTDNS_PROFILE_ID", "xyz789")
	t.Setenv("NDX_API_URL", "http://proxy:9000")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.NextDNS.APIKey)
	assert.Equal(t, "xyz789", conf.NextDNS.ProfileID)
	assert.Equal(t, "http://proxy:9000", conf.Viewer.APIURL)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `webServer:
  host: 127.0.0.1
  port: 8080
logger:
  level: verbose
  mode: 0644
  dir: /tmp/ndx-logs
`)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestClampLogsLimit(t *testing.T) {
	assert.Equal(t, defaultLogsLimit, ClampLogsLimit(0))
	assert.Equal(t, defaultLogsLimit, ClampLogsLimit(-5))
	assert.Equal(t, minLogsLimit, ClampLogsLimit(3))
	assert.Equal(t, 250, ClampLogsLimit(250))
	assert.Equal(t, maxLogsLimit, ClampLogsLimit(1001))
}
