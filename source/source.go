// Package source defines the interface for catalogue record backends.
package source

import (
	"context"
	"errors"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/record"
)

// ErrUnknownSearchField is returned when a backend has no field with the
// requested search field name.
var ErrUnknownSearchField = errors.New("unknown search field")

// Source searches a catalogue backend.
type Source interface {
	// Name returns the backend identifier (e.g., "vocabulary", "legacy")
	Name() string

	// Description returns a human-readable backend description
	Description() string

	// Search returns candidate records whose field matches term. Backends
	// may match fuzzily; callers filter for exact matches.
	Search(ctx context.Context, database, field, term string) ([]*record.Record, error)
}

// Closer is implemented by sources holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// Factory creates a source for a configured catalogue.
type Factory func(ctx context.Context, c *config.Catalogue) (Source, error)
