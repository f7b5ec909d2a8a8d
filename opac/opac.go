// Package opac runs catalogue searches and turns the matching record into a
// METS document.
package opac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/mapping"
	"github.com/lehigh-university-libraries/opacbridge/mets"
	"github.com/lehigh-university-libraries/opacbridge/record"
	"github.com/lehigh-university-libraries/opacbridge/source"
)

// Title is the plugin title.
const Title = "intranda_opac_vocabulary"

// ErrBadRequest is returned for searches missing a field or term.
var ErrBadRequest = errors.New("bad search request")

// Request is one catalogue search.
type Request struct {
	// Workflow is the workflow name used for config block selection
	Workflow string

	// Field is the record field to search in
	Field string

	// Term is the value to search for
	Term string
}

// Result is the outcome of a search. Hits is 0 and Document nil when no
// candidate matched the term exactly.
type Result struct {
	Hits     int
	DocType  string
	Document *mets.Document
	Record   *record.Record
	Resolved mapping.Resolved
}

// Found reports whether the search produced a document.
func (r *Result) Found() bool {
	return r != nil && r.Hits > 0
}

// Plugin searches one catalogue.
type Plugin struct {
	Catalogue *config.Catalogue
	Source    source.Source
	Configs   *config.Cache

	// Prefs validates document and metadata types; nil accepts everything
	Prefs *mets.Prefs
}

// New creates a plugin for a catalogue.
func New(c *config.Catalogue, src source.Source, configs *config.Cache, prefs *mets.Prefs) *Plugin {
	return &Plugin{
		Catalogue: c,
		Source:    src,
		Configs:   configs,
		Prefs:     prefs,
	}
}

// Search queries the backend and maps the first exact match.
func (p *Plugin) Search(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Field) == "" || req.Term == "" {
		return nil, fmt.Errorf("%w: field and term are required", ErrBadRequest)
	}

	database := p.Catalogue.Database
	cfg, err := p.Configs.Get(req.Workflow, database)
	if err != nil {
		return nil, fmt.Errorf("loading mapping for %s: %w", p.Catalogue.Name, err)
	}

	candidates, err := p.Source.Search(ctx, database, req.Field, req.Term)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", p.Catalogue.Name, err)
	}

	rec, ok := mapping.FindExactMatch(candidates, req.Field, req.Term)
	if !ok {
		slog.Info("no exact match", "catalogue", p.Catalogue.Name, "field", req.Field, "term", req.Term, "candidates", len(candidates))
		return &Result{Hits: 0}, nil
	}

	resolved := mapping.Resolve(rec, cfg, p.Prefs.Resolver())

	doc, err := mets.NewDocument(p.Prefs, resolved.DocType)
	if err != nil {
		return nil, fmt.Errorf("creating document for record %s: %w", rec.ID, err)
	}

	if err := doc.AddMetadata(mets.IdentifierMetadata, rec.ID); err != nil {
		slog.Error("cannot add record identifier", "record", rec.ID, "error", err)
	}
	for _, err := range doc.Apply(resolved) {
		slog.Error("cannot add metadata", "record", rec.ID, "error", err)
	}

	return &Result{
		Hits:     1,
		DocType:  doc.Logical.Type,
		Document: doc,
		Record:   rec,
		Resolved: resolved,
	}, nil
}
