package mapping

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/opacbridge/record"
)

func monographConfig() *Config {
	return &Config{
		DefaultDocType: "Monograph",
		Metadata: []Entry{
			{Target: "TitleDocMain", Source: "title"},
			{Target: "CatalogIDDigital", Source: "id"},
		},
	}
}

func TestResolveMetadata_Scenario(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "title", Values: []string{"My Book"}},
		record.Field{Definition: "id", Values: []string{"12345"}},
	)

	got := Resolve(rec, monographConfig(), nil)

	assert.Equal(t, "Monograph", got.DocType)
	assert.Equal(t, []Pair{
		{Target: "TitleDocMain", Value: "My Book"},
		{Target: "CatalogIDDigital", Value: "12345"},
	}, got.Metadata)
}

func TestResolveMetadata_BlankValueDropped(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "title", Values: []string{""}},
		record.Field{Definition: "id", Values: []string{"12345"}},
	)

	got := ResolveMetadata(rec, monographConfig(), nil)

	assert.Equal(t, []Pair{{Target: "CatalogIDDigital", Value: "12345"}}, got)
}

func TestResolveMetadata_WhitespaceOnlyDropped(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "title", Values: []string{"  ", "\t"}},
	)

	assert.Empty(t, ResolveMetadata(rec, monographConfig(), nil))
}

func TestResolveMetadata_EmptyTable(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "title", Values: []string{"My Book"}},
	)

	assert.Empty(t, ResolveMetadata(rec, &Config{DefaultDocType: "Monograph"}, nil))
	assert.Empty(t, ResolveMetadata(rec, nil, nil))
}

func TestResolveMetadata_MissingSourceSkipped(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "publisher", Values: []string{"Press"}},
	)

	assert.Empty(t, ResolveMetadata(rec, monographConfig(), nil))
}

func TestResolveMetadata_FirstFieldWins(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "title", Values: []string{"First"}},
		record.Field{Definition: "title", Values: []string{"Second"}},
	)

	got := ResolveMetadata(rec, monographConfig(), nil)

	require.Len(t, got, 1)
	assert.Equal(t, "First", got[0].Value)
}

func TestResolveMetadata_JoinsTranslations(t *testing.T) {
	rec := record.New("1",
		record.Field{Definition: "title", Values: []string{"Das Buch", "The Book"}},
	)

	got := ResolveMetadata(rec, monographConfig(), nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Das Buch The Book", got[0].Value)
}

func TestResolveMetadata_UnknownTargetSkipped(t *testing.T) {
	cfg := &Config{Metadata: []Entry{
		{Target: "NoSuchMetadata", Source: "title"},
		{Target: "TitleDocMain", Source: "title"},
	}}
	rec := record.New("1", record.Field{Definition: "title", Values: []string{"My Book"}})

	kinds := FieldKindFunc(func(name string) (FieldKind, error) {
		if name == "TitleDocMain" {
			return KindMetadata, nil
		}
		return 0, fmt.Errorf("metadata type %q: %w", name, ErrUnknownField)
	})

	got := ResolveMetadata(rec, cfg, kinds)

	assert.Equal(t, []Pair{{Target: "TitleDocMain", Value: "My Book"}}, got)
}

func TestResolveDocumentType(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		fields []record.Field
		want   string
	}{
		{
			name: "no override configured",
			cfg:  &Config{DefaultDocType: "Monograph"},
			fields: []record.Field{
				{Definition: "docType", Values: []string{"Article"}},
			},
			want: "Monograph",
		},
		{
			name: "override unmatched",
			cfg:  &Config{DefaultDocType: "Monograph", DocTypeField: "docType"},
			fields: []record.Field{
				{Definition: "title", Values: []string{"My Book"}},
			},
			want: "Monograph",
		},
		{
			name: "override joined",
			cfg:  &Config{DefaultDocType: "Monograph", DocTypeField: "docType"},
			fields: []record.Field{
				{Definition: "docType", Values: []string{"Article", "Journal"}},
			},
			want: "Article Journal",
		},
		{
			name: "override blank falls back to default",
			cfg:  &Config{DefaultDocType: "Monograph", DocTypeField: "docType"},
			fields: []record.Field{
				{Definition: "docType", Values: []string{"", " "}},
			},
			want: "Monograph",
		},
		{
			name: "no default and no override",
			cfg:  &Config{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record.New("1", tt.fields...)
			assert.Equal(t, tt.want, ResolveDocumentType(rec, tt.cfg))
		})
	}
}

func TestResolvePersons(t *testing.T) {
	cfg := &Config{Persons: []PersonEntry{
		{Role: "Author", Source: "author"},
		{Role: "Editor", Source: "editor"},
		{Role: "TitleDocMain", Source: "title"},
	}}
	rec := record.New("1",
		record.Field{Definition: "author", Values: []string{"Johnson, Alice"}},
		record.Field{Definition: "editor", Values: []string{" "}},
		record.Field{Definition: "title", Values: []string{"My Book"}},
	)

	kinds := FieldKindFunc(func(name string) (FieldKind, error) {
		if name == "TitleDocMain" {
			return KindMetadata, nil
		}
		return KindPerson, nil
	})

	got := ResolvePersons(rec, cfg, kinds)

	assert.Equal(t, []PersonPair{{Role: "Author", FirstName: "Alice", LastName: "Johnson"}}, got)
}

func TestFindExactMatch(t *testing.T) {
	fuzzy := record.New("a", record.Field{Definition: "ppn", Values: []string{"6801912590"}})
	exact := record.New("b",
		record.Field{Definition: "title", Values: []string{"Something"}},
		record.Field{Definition: "ppn", Values: []string{"de", "680191259"}},
	)
	later := record.New("c", record.Field{Definition: "ppn", Values: []string{"680191259"}})

	t.Run("first exact candidate wins", func(t *testing.T) {
		got, ok := FindExactMatch([]*record.Record{fuzzy, exact, later}, "ppn", "680191259")
		require.True(t, ok)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("substring only is absent", func(t *testing.T) {
		got, ok := FindExactMatch([]*record.Record{fuzzy}, "ppn", "680191259")
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("case sensitive", func(t *testing.T) {
		rec := record.New("d", record.Field{Definition: "title", Values: []string{"Goethe"}})
		_, ok := FindExactMatch([]*record.Record{rec}, "title", "goethe")
		assert.False(t, ok)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := FindExactMatch(nil, "ppn", "680191259")
		assert.False(t, ok)
	})
}
