package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"ndexplorer/internal/structures"
)

const (
	defaultLogsLimit = 200
	minLogsLimit     = 10
	maxLogsLimit     = 1000
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// .env is optional; credentials may come from the real environment.
	_ = godotenv.Load()

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("nextdns.baseUrl", "https://api.nextdns.io")
	v.SetDefault("nextdns.logsLimit", defaultLogsLimit)
	v.SetDefault("nextdns.rateLimit", 5)
	v.SetDefault("nextdns.timeout", 15*time.Second)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.warmup", 4*time.Minute)
	v.SetDefault("viewer.apiUrl", "http://127.0.0.1:8080")
	v.SetDefault("viewer.scrollThreshold", 10)
	v.SetDefault("viewer.scrollThrottle", 100*time.Millisecond)

	_ = v.BindEnv("nextdns.apiKey", "NEXTDNS_API_KEY")
	_ = v.BindEnv("nextdns.profileId", "NEXTDNS_PROFILE_ID")
	_ = v.BindEnv("nextdns.logsLimit", "NEXTDNS_LOGS_LIMIT")
	_ = v.BindEnv("logger.level", "NDX_LOG_LEVEL")
	_ = v.BindEnv("cache.enabled", "NDX_CACHE_ENABLED")
	_ = v.BindEnv("viewer.apiUrl", "NDX_API_URL")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.NextDNS.LogsLimit = ClampLogsLimit(conf.NextDNS.LogsLimit)
	conf.AppName = "NDExplorer"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// ClampLogsLimit keeps the page size within what NextDNS accepts.
func ClampLogsLimit(limit int) int {
	if limit <= 0 {
		return defaultLogsLimit
	}
	return max(minLogsLimit, min(maxLogsLimit, limit))
}
