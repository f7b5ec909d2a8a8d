// Package sample is a demonstration catalogue. Without an address it answers
// every search with one record of fixed demo values; with an address it
// reads a simple XML record list over HTTP.
package sample

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	xmlpath "gopkg.in/xmlpath.v2"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/record"
	"github.com/lehigh-university-libraries/opacbridge/source"
)

var (
	recordPath = xmlpath.MustCompile("//record")
	idPath     = xmlpath.MustCompile("@id")
	fieldPath  = xmlpath.MustCompile("field")
	namePath   = xmlpath.MustCompile("@name")
)

// demoFields are returned for every search without an address.
var demoFields = []record.Field{
	{Definition: "title", Values: []string{"Sample title"}},
	{Definition: "author", Values: []string{"Mustermann, Max"}},
	{Definition: "publisher", Values: []string{"Sample publisher"}},
	{Definition: "place", Values: []string{"Göttingen"}},
	{Definition: "year", Values: []string{"2020"}},
	{Definition: "docType", Values: []string{"Monograph"}},
}

// Source is the sample catalogue.
type Source struct {
	Address    string
	HTTPClient *http.Client
}

var _ source.Source = (*Source)(nil)

// New creates a sample source. An empty address serves demo records.
func New(address string) *Source {
	return &Source{
		Address:    address,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the backend identifier.
func (s *Source) Name() string {
	return "sample"
}

// Description returns a human-readable backend description.
func (s *Source) Description() string {
	if s.Address == "" {
		return "Sample OPAC (demo values)"
	}
	return "Sample OPAC (" + s.Address + ")"
}

// Search returns the demo record or the records served at Address.
func (s *Source) Search(ctx context.Context, database, field, term string) ([]*record.Record, error) {
	if s.Address == "" {
		return []*record.Record{Demo(field, term)}, nil
	}

	u, err := url.Parse(s.Address)
	if err != nil {
		return nil, fmt.Errorf("parsing sample address: %w", err)
	}
	q := u.Query()
	q.Set("database", database)
	q.Set("field", field)
	q.Set("term", term)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", u, resp.StatusCode)
	}

	records, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	slog.Debug("sample search complete", "url", u.String(), "candidates", len(records))
	return records, nil
}

// Demo builds the demo record for a search. The searched field carries
// the term so the record always matches exactly.
func Demo(field, term string) *record.Record {
	rec := record.New("sample-" + term)
	replaced := false
	for _, f := range demoFields {
		if f.Definition == field {
			rec.Add(field, term)
			replaced = true
			continue
		}
		rec.Add(f.Definition, f.Values...)
	}
	if !replaced {
		rec.Add(field, term)
	}
	return rec
}

// Parse reads a <records><record id=".."><field name="..">value</field>
// list. Repeated field names become separate fields.
func Parse(r io.Reader) ([]*record.Record, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing sample response: %w", err)
	}

	var records []*record.Record
	iter := recordPath.Iter(root)
	for iter.Next() {
		node := iter.Node()
		id, _ := idPath.String(node)
		rec := record.New(id)

		fields := fieldPath.Iter(node)
		for fields.Next() {
			f := fields.Node()
			name, ok := namePath.String(f)
			if !ok || name == "" {
				continue
			}
			rec.Add(name, strings.TrimSpace(f.String()))
		}
		records = append(records, rec)
	}
	return records, nil
}

func init() {
	source.Register(source.Backend{
		Name:        "sample",
		Description: "Sample OPAC with demo values",
		Factory: func(_ context.Context, c *config.Catalogue) (source.Source, error) {
			return New(c.Address), nil
		},
	})
}
