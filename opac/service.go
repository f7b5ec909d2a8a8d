package opac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/mets"
	"github.com/lehigh-university-libraries/opacbridge/source"
)

// Service owns one plugin per configured catalogue. Plugins share the
// config cache and ruleset and are opened on first use.
type Service struct {
	App      *config.App
	Configs  *config.Cache
	Prefs    *mets.Prefs
	Registry *source.Registry

	mu      sync.Mutex
	plugins map[string]*Plugin
}

// NewService loads the ruleset named by app and prepares the config cache.
func NewService(app *config.App) (*Service, error) {
	var prefs *mets.Prefs
	if app.Ruleset != "" {
		p, err := mets.LoadPrefs(app.Ruleset)
		if err != nil {
			return nil, err
		}
		prefs = p
	}

	return &Service{
		App:      app,
		Configs:  config.NewCache(app.PluginConfig),
		Prefs:    prefs,
		Registry: source.DefaultRegistry,
		plugins:  make(map[string]*Plugin),
	}, nil
}

// Plugin returns the plugin for the named catalogue. Backends are opened
// without holding the service lock, so a slow connection only delays its
// own catalogue. When two callers open the same catalogue concurrently the
// first stored plugin wins and the other source is closed.
func (s *Service) Plugin(ctx context.Context, name string) (*Plugin, error) {
	c, err := s.App.Catalogue(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	p, ok := s.plugins[c.Name]
	s.mu.Unlock()
	if ok {
		return p, nil
	}

	src, err := s.Registry.Open(ctx, c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.plugins[c.Name]; ok {
		if closer, ok := src.(source.Closer); ok {
			if err := closer.Close(ctx); err != nil {
				slog.Warn("closing duplicate source", "catalogue", c.Name, "error", err)
			}
		}
		return existing, nil
	}

	p = New(c, src, s.Configs, s.Prefs)
	s.plugins[c.Name] = p
	return p, nil
}

// Search runs a search on the named catalogue.
func (s *Service) Search(ctx context.Context, catalogue string, req Request) (*Result, error) {
	p, err := s.Plugin(ctx, catalogue)
	if err != nil {
		return nil, err
	}
	return p.Search(ctx, req)
}

// Close releases backend connections.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, p := range s.plugins {
		if c, ok := p.Source.(source.Closer); ok {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
			}
		}
	}
	s.plugins = make(map[string]*Plugin)
	return errors.Join(errs...)
}
