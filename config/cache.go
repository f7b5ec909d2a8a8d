package config

import (
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
)

type cacheKey struct {
	workflow string
	template string
}

// Cache loads a plugin configuration file on first use and remembers the
// mapping selected for each workflow/template pair.
type Cache struct {
	load func() (*PluginConfig, error)

	mu       sync.Mutex
	file     *PluginConfig
	selected map[cacheKey]*mapping.Config
}

// NewCache creates a cache reading the plugin configuration at path.
func NewCache(path string) *Cache {
	return NewCacheFunc(func() (*PluginConfig, error) {
		return LoadPlugin(path)
	})
}

// NewCacheFunc creates a cache backed by a custom loader.
func NewCacheFunc(load func() (*PluginConfig, error)) *Cache {
	return &Cache{
		load:     load,
		selected: make(map[cacheKey]*mapping.Config),
	}
}

// Get returns the mapping for a workflow/template pair. The returned config
// is shared and must not be modified.
func (c *Cache) Get(workflow, template string) (*mapping.Config, error) {
	key := cacheKey{workflow: workflow, template: template}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg, ok := c.selected[key]; ok {
		return cfg, nil
	}

	if c.file == nil {
		pc, err := c.load()
		if err != nil {
			return nil, err
		}
		c.file = pc
		slog.Debug("loaded plugin config", "blocks", len(pc.Blocks))
	}

	block, err := c.file.Select(workflow, template)
	if err != nil {
		return nil, err
	}

	cfg := block.Mapping
	c.selected[key] = &cfg
	return &cfg, nil
}

// Reset forgets the loaded file and every selection. The next Get reloads.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.file = nil
	c.selected = make(map[cacheKey]*mapping.Config)
}
