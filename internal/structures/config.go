package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// NextDNSConfig holds upstream credentials. APIKey and ProfileID may be empty
// when the process only talks to a remote proxy; the upstream client reports
// error.configMissing on first use in that case.
type NextDNSConfig struct {
	BaseURL   string        `yaml:"baseUrl" validate:"required|fullUrl"`
	APIKey    string        `yaml:"apiKey"`
	ProfileID string        `yaml:"profileId"`
	LogsLimit int           `yaml:"logsLimit"`
	RateLimit float64       `yaml:"rateLimit"`
	Timeout   time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	// Warmup refreshes the cached device list in the background; zero disables it.
	Warmup time.Duration `yaml:"warmup"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ViewerConfig struct {
	APIURL          string        `yaml:"apiUrl"`
	ScrollThreshold int           `yaml:"scrollThreshold"`
	ScrollThrottle  time.Duration `yaml:"scrollThrottle"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	NextDNS   NextDNSConfig `yaml:"nextdns"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Viewer    ViewerConfig  `yaml:"viewer"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	Direct     bool
	APIURL     string
}

type Route struct {
	Url     string
	Handler http.Handler
}
