package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default application config path.
const EnvConfigPath = "OPACBRIDGE_CONFIG"

// Catalogue describes one searchable catalogue and the backend serving it.
type Catalogue struct {
	// Name identifies the catalogue on the command line and in URLs
	Name string `yaml:"name" json:"name"`

	// Description is shown in catalogue listings
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Backend selects the record source (e.g., "vocabulary", "legacy", "sample")
	Backend string `yaml:"backend" json:"backend"`

	// Database is the vocabulary name; it doubles as the template name
	// for config block selection
	Database string `yaml:"database" json:"database"`

	// Address is the backend base URL or connection string
	Address string `yaml:"address,omitempty" json:"address,omitempty"`

	// Options holds backend specific settings
	Options map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// Option returns a backend option with a default.
func (c *Catalogue) Option(name, def string) string {
	if v, ok := c.Options[name]; ok && v != "" {
		return v
	}
	return def
}

// UnknownCatalogueError is returned for catalogue names missing from the config.
type UnknownCatalogueError struct {
	Name string
}

func (e *UnknownCatalogueError) Error() string {
	return "unknown catalogue: " + e.Name
}

// App is the application configuration.
type App struct {
	// PluginConfig is the path of the plugin mapping configuration
	PluginConfig string `yaml:"plugin_config" json:"plugin_config"`

	// Ruleset is the path of the ruleset XML; empty disables validation
	Ruleset string `yaml:"ruleset,omitempty" json:"ruleset,omitempty"`

	// Catalogues lists the configured catalogues
	Catalogues []Catalogue `yaml:"catalogues" json:"catalogues"`
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.opacbridge is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the opacbridge configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".opacbridge"), nil
}

// DefaultPath returns the application config path: $OPACBRIDGE_CONFIG if
// set, otherwise config.yaml in ConfigDir.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadApp reads the application config. Relative plugin config and ruleset
// paths are resolved against the directory of the config file.
func LoadApp(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %q not found", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	app, err := ParseApp(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	app.PluginConfig = resolvePath(base, app.PluginConfig)
	app.Ruleset = resolvePath(base, app.Ruleset)
	return app, nil
}

// ParseApp parses and validates an application config.
func ParseApp(data []byte) (*App, error) {
	var app App
	if err := yaml.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

// Validate checks catalogue names and required fields.
func (a *App) Validate() error {
	if a.PluginConfig == "" {
		return fmt.Errorf("config: plugin_config is required")
	}
	seen := make(map[string]bool)
	for i, c := range a.Catalogues {
		if c.Name == "" {
			return fmt.Errorf("config: catalogue %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("config: duplicate catalogue %q", c.Name)
		}
		seen[c.Name] = true
		if c.Backend == "" {
			return fmt.Errorf("config: catalogue %q has no backend", c.Name)
		}
	}
	return nil
}

// Catalogue returns the named catalogue. Names compare case-insensitively.
func (a *App) Catalogue(name string) (*Catalogue, error) {
	for i := range a.Catalogues {
		if strings.EqualFold(a.Catalogues[i].Name, name) {
			return &a.Catalogues[i], nil
		}
	}
	return nil, &UnknownCatalogueError{Name: name}
}

// CatalogueNames returns the configured catalogue names, sorted.
func (a *App) CatalogueNames() []string {
	names := make([]string, 0, len(a.Catalogues))
	for _, c := range a.Catalogues {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
