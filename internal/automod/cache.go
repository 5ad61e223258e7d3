package automod

import (
	"context"
	"strconv"
	"sync"
	"time"

	"sentinel-automod/internal/moderation"

	"golang.org/x/sync/singleflight"
)

const DefaultCacheTTL = 60 * time.Second

type ConfigLoader interface {
	GetGuildAutomodConfig(ctx context.Context, guildID string) (moderation.GuildConfig, bool, error)
}

type cacheEntry struct {
	config   moderation.GuildConfig
	found    bool
	cachedAt time.Time
}

// ConfigCache is a read-through TTL cache of guild configurations. Reads never
// invalidate; writers call Invalidate after persisting a change.
type ConfigCache struct {
	mu          sync.RWMutex
	loader      ConfigLoader
	ttl         time.Duration
	now         func() time.Time
	entries     map[string]cacheEntry
	generations map[string]uint64
	epoch       uint64
	group       singleflight.Group
}

func NewConfigCache(loader ConfigLoader, ttl time.Duration) *ConfigCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ConfigCache{
		loader:      loader,
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]cacheEntry),
		generations: make(map[string]uint64),
	}
}

func (c *ConfigCache) WithClock(now func() time.Time) {
	c.now = now
}

// Get returns the cached configuration or loads it. Concurrent misses for one
// guild share a single load.
func (c *ConfigCache) Get(ctx context.Context, guildID string) (moderation.GuildConfig, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[guildID]
	generation := c.generations[guildID]
	epoch := c.epoch
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.cachedAt) < c.ttl {
		return entry.config, entry.found, nil
	}

	// The flight key carries the generation so a load started before an
	// invalidation is never shared with a read that follows it.
	key := guildID + "#" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(generation, 10)
	value, err, _ := c.group.Do(key, func() (any, error) {
		cfg, found, err := c.loader.GetGuildAutomodConfig(ctx, guildID)
		if err != nil {
			return nil, err
		}
		loaded := cacheEntry{config: cfg, found: found, cachedAt: c.now()}

		c.mu.Lock()
		if c.generations[guildID] == generation && c.epoch == epoch {
			c.entries[guildID] = loaded
		}
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return moderation.GuildConfig{}, false, err
	}
	loaded := value.(cacheEntry)
	return loaded.config, loaded.found, nil
}

func (c *ConfigCache) Invalidate(guildID string) {
	c.mu.Lock()
	delete(c.entries, guildID)
	c.generations[guildID]++
	c.mu.Unlock()
}

func (c *ConfigCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.epoch++
	c.mu.Unlock()
}

func (c *ConfigCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
