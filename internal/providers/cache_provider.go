package providers

import (
	"github.com/coocood/freecache"
	"ndexplorer/internal/structures"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider holds encoded proxy payloads. Keys are prefixed with the
// NextDNS profile so a profile switch never serves another profile's devices.
type CacheProvider struct {
	cache  *freecache.Cache
	ttl    int
	prefix string
	logger Logger
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	// freecache expires whole seconds only.
	ttl := max(int(conf.Cache.TTL.Seconds()), 1)
	logger.Infof(TypeApp, "Device cache: %dMB, TTL %ds, profile %q", conf.Cache.Size, ttl, conf.NextDNS.ProfileID)

	return &CacheProvider{
		cache:  freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		ttl:    ttl,
		prefix: conf.NextDNS.ProfileID + "/",
		logger: logger,
	}
}

func (c *CacheProvider) key(name string) []byte {
	return []byte(c.prefix + name)
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(c.key(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set drops payloads freecache refuses (larger than 1/1024 of the cache).
func (c *CacheProvider) Set(key string, value []byte) {
	if err := c.cache.Set(c.key(key), value, c.ttl); err != nil {
		c.logger.Warnf(TypeApp, "Cache: not storing %s (%d bytes): %v", key, len(value), err)
	}
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool) { return nil, false }
func (noopCache) Set(string, []byte)        {}
