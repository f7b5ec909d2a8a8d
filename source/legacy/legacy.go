// Package legacy searches the legacy vocabulary manager tables, stored as
// one document per record in MongoDB.
package legacy

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/record"
	"github.com/lehigh-university-libraries/opacbridge/source"
)

const (
	// DefaultDatabase is the MongoDB database holding the vocabulary records.
	DefaultDatabase = "goobi"

	// DefaultCollection is the collection holding the vocabulary records.
	DefaultCollection = "vocabulary_records"

	// DefaultLimit caps the number of records returned by one search.
	DefaultLimit = 50
)

// Field is one stored field of a legacy record.
type Field struct {
	Label    string `bson:"label"`
	Language string `bson:"language,omitempty"`
	Value    string `bson:"value"`
}

// Record is a stored legacy vocabulary record.
type Record struct {
	RecordID   int64   `bson:"recordId"`
	Vocabulary string  `bson:"vocabulary"`
	Fields     []Field `bson:"fields"`
}

// Store is a legacy vocabulary manager backed by MongoDB.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	limit      int64
}

var (
	_ source.Source = (*Store)(nil)
	_ source.Closer = (*Store)(nil)
)

// Open connects to MongoDB and verifies the connection.
func Open(ctx context.Context, uri, database, collection string) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(30 * time.Second)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
		limit:      DefaultLimit,
	}, nil
}

// Name returns the backend identifier.
func (s *Store) Name() string {
	return "legacy"
}

// Description returns a human-readable backend description.
func (s *Store) Description() string {
	return "Legacy vocabulary manager (MongoDB " + s.collection.Database().Name() + "." + s.collection.Name() + ")"
}

// Search returns the records of vocabulary database carrying a field
// labelled field with value term. Matching is exact.
func (s *Store) Search(ctx context.Context, database, field, term string) ([]*record.Record, error) {
	cursor, err := s.collection.Find(ctx, Filter(database, field, term),
		options.Find().SetLimit(s.limit).SetSort(bson.D{{Key: "recordId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("searching vocabulary %q: %w", database, err)
	}
	defer cursor.Close(ctx)

	var stored []Record
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, fmt.Errorf("decoding records of vocabulary %q: %w", database, err)
	}

	result := make([]*record.Record, 0, len(stored))
	for i := range stored {
		result = append(result, Convert(&stored[i]))
	}
	slog.Debug("legacy search complete", "vocabulary", database, "field", field, "term", term, "candidates", len(result))
	return result, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Filter builds the exact match query for a field label and value.
func Filter(vocabulary, field, term string) bson.D {
	return bson.D{
		{Key: "vocabulary", Value: vocabulary},
		{Key: "fields", Value: bson.D{
			{Key: "$elemMatch", Value: bson.D{
				{Key: "label", Value: field},
				{Key: "value", Value: term},
			}},
		}},
	}
}

// Convert turns a stored record into a catalogue record with one field per
// stored field, in stored order. Repeated labels stay separate fields so
// lookups use the first one.
func Convert(r *Record) *record.Record {
	rec := record.New(strconv.FormatInt(r.RecordID, 10))
	for _, f := range r.Fields {
		rec.Add(f.Label, f.Value)
	}
	return rec
}

func init() {
	source.Register(source.Backend{
		Name:        "legacy",
		Description: "Legacy database vocabulary manager (MongoDB)",
		Factory: func(ctx context.Context, c *config.Catalogue) (source.Source, error) {
			if c.Address == "" {
				return nil, fmt.Errorf("legacy backend needs a MongoDB URI as address")
			}
			store, err := Open(ctx, c.Address, c.Option("database", DefaultDatabase), c.Option("collection", DefaultCollection))
			if err != nil {
				return nil, err
			}
			if l := c.Option("limit", ""); l != "" {
				n, err := strconv.ParseInt(l, 10, 64)
				if err != nil {
					_ = store.Close(ctx)
					return nil, fmt.Errorf("parsing limit: %w", err)
				}
				store.limit = n
			}
			return store, nil
		},
	})
}
