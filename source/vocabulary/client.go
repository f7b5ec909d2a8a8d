// Package vocabulary searches records on a Goobi vocabulary server.
package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/record"
	"github.com/lehigh-university-libraries/opacbridge/source"
)

// DefaultTimeout bounds every request to the vocabulary server.
const DefaultTimeout = 30 * time.Second

// Client talks to the vocabulary server REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Optional bearer token
	Token string
}

var _ source.Source = (*Client)(nil)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Name returns the backend identifier.
func (c *Client) Name() string {
	return "vocabulary"
}

// Description returns a human-readable backend description.
func (c *Client) Description() string {
	return "Goobi vocabulary server (" + c.BaseURL + ")"
}

// Search finds the vocabulary named database, maps field to its schema
// definition and runs a server side search for term. The server matches
// fuzzily.
func (c *Client) Search(ctx context.Context, database, field, term string) ([]*record.Record, error) {
	vocab, err := c.FindVocabulary(ctx, database)
	if err != nil {
		return nil, err
	}

	schema, err := c.Schema(ctx, vocab.SchemaID)
	if err != nil {
		return nil, err
	}

	fieldID, ok := schema.DefinitionID(field)
	if !ok {
		return nil, fmt.Errorf("field %q in vocabulary %q: %w", field, vocab.Name, source.ErrUnknownSearchField)
	}

	records, err := c.SearchRecords(ctx, vocab.ID, fieldID, term)
	if err != nil {
		return nil, err
	}

	result := make([]*record.Record, 0, len(records))
	for i := range records {
		result = append(result, Convert(&records[i], schema))
	}
	slog.Debug("vocabulary search complete", "vocabulary", vocab.Name, "field", field, "term", term, "candidates", len(result))
	return result, nil
}

// FindVocabulary looks a vocabulary up by name.
func (c *Client) FindVocabulary(ctx context.Context, name string) (*Vocabulary, error) {
	var v Vocabulary
	if err := c.getJSON(ctx, "/api/v1/vocabularies/find/"+url.PathEscape(name), nil, &v); err != nil {
		return nil, fmt.Errorf("finding vocabulary %q: %w", name, err)
	}
	return &v, nil
}

// Schema loads a vocabulary schema.
func (c *Client) Schema(ctx context.Context, id int64) (*Schema, error) {
	var s Schema
	if err := c.getJSON(ctx, "/api/v1/schemas/"+strconv.FormatInt(id, 10), nil, &s); err != nil {
		return nil, fmt.Errorf("loading schema %d: %w", id, err)
	}
	return &s, nil
}

// SearchRecords runs a field search inside a vocabulary.
func (c *Client) SearchRecords(ctx context.Context, vocabularyID, fieldID int64, term string) ([]Record, error) {
	query := url.Values{}
	query.Set("search", strconv.FormatInt(fieldID, 10)+":"+term)

	var page recordPage
	path := "/api/v1/vocabularies/" + strconv.FormatInt(vocabularyID, 10) + "/records"
	if err := c.getJSON(ctx, path, query, &page); err != nil {
		return nil, fmt.Errorf("searching vocabulary %d: %w", vocabularyID, err)
	}
	return page.Embedded.Records, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		slog.Debug("network request failed", "url", u, "error", err, "duration", time.Since(start))
		return fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	slog.Debug("network request complete", "url", u, "status", resp.StatusCode, "duration", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %d", u, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", u, err)
	}
	return nil
}

// Convert flattens a vocabulary record into a catalogue record. Field
// definitions are named after the schema; translations become values.
func Convert(r *Record, schema *Schema) *record.Record {
	rec := record.New(strconv.FormatInt(r.ID, 10))
	for _, f := range r.Fields {
		name, ok := schema.DefinitionName(f.DefinitionID)
		if !ok {
			slog.Debug("field without schema definition", "record", r.ID, "definitionId", f.DefinitionID)
			continue
		}

		var values []string
		for _, v := range f.Values {
			for _, t := range v.Translations {
				values = append(values, t.Value)
			}
		}
		rec.Add(name, values...)
	}
	return rec
}

func init() {
	source.Register(source.Backend{
		Name:        "vocabulary",
		Description: "Goobi vocabulary server REST API",
		Factory: func(_ context.Context, c *config.Catalogue) (source.Source, error) {
			if c.Address == "" {
				return nil, fmt.Errorf("vocabulary backend needs an address")
			}
			client := NewClient(c.Address)
			client.Token = c.Option("token", "")
			if t := c.Option("timeout", ""); t != "" {
				d, err := time.ParseDuration(t)
				if err != nil {
					return nil, fmt.Errorf("parsing timeout: %w", err)
				}
				client.HTTPClient.Timeout = d
			}
			return client, nil
		},
	})
}
