package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
	"github.com/lehigh-university-libraries/opacbridge/record"
)

func TestConvert(t *testing.T) {
	stored := &Record{
		RecordID:   17,
		Vocabulary: "Persons",
		Fields: []Field{
			{Label: "name", Language: "ger", Value: "Goethe, Johann Wolfgang"},
			{Label: "gnd", Value: "118540238"},
			{Label: "name", Language: "eng", Value: "Goethe"},
		},
	}

	got := Convert(stored)

	assert.Equal(t, &record.Record{
		ID: "17",
		Fields: []record.Field{
			{Definition: "name", Values: []string{"Goethe, Johann Wolfgang"}},
			{Definition: "gnd", Values: []string{"118540238"}},
			{Definition: "name", Values: []string{"Goethe"}},
		},
	}, got)
}

func TestConvert_RepeatedLabelUsesFirst(t *testing.T) {
	stored := &Record{
		RecordID:   17,
		Vocabulary: "Persons",
		Fields: []Field{
			{Label: "name", Language: "ger", Value: "Goethe, Johann Wolfgang"},
			{Label: "name", Language: "eng", Value: "Goethe"},
		},
	}

	cfg := &mapping.Config{
		DefaultDocType: "Letter",
		Metadata:       []mapping.Entry{{Target: "TitleDocMain", Source: "name"}},
		Persons:        []mapping.PersonEntry{{Role: "Author", Source: "name"}},
	}

	got := mapping.Resolve(Convert(stored), cfg, nil)

	assert.Equal(t, []mapping.Pair{{Target: "TitleDocMain", Value: "Goethe, Johann Wolfgang"}}, got.Metadata)
	assert.Equal(t, []mapping.PersonPair{{Role: "Author", FirstName: "Johann Wolfgang", LastName: "Goethe"}}, got.Persons)
}

func TestFilter(t *testing.T) {
	f := Filter("Persons", "gnd", "118540238")

	data, err := bson.MarshalExtJSON(f, false, false)
	assert.NoError(t, err)
	assert.JSONEq(t,
		`{"vocabulary":"Persons","fields":{"$elemMatch":{"label":"gnd","value":"118540238"}}}`,
		string(data))
}
