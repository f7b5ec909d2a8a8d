package vocabulary

// Vocabulary is a vocabulary as returned by the vocabulary server.
type Vocabulary struct {
	ID       int64  `json:"id"`
	SchemaID int64  `json:"schemaId"`
	Name     string `json:"name"`
}

// Schema lists the field definitions of a vocabulary.
type Schema struct {
	ID          int64             `json:"id"`
	Definitions []FieldDefinition `json:"definitions"`
}

// FieldDefinition is one field of a schema.
type FieldDefinition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefinitionID returns the id of the named definition.
func (s *Schema) DefinitionID(name string) (int64, bool) {
	for _, d := range s.Definitions {
		if d.Name == name {
			return d.ID, true
		}
	}
	return 0, false
}

// DefinitionName returns the name of the definition with the given id.
func (s *Schema) DefinitionName(id int64) (string, bool) {
	for _, d := range s.Definitions {
		if d.ID == id {
			return d.Name, true
		}
	}
	return "", false
}

// Record is a vocabulary record.
type Record struct {
	ID     int64           `json:"id"`
	Fields []FieldInstance `json:"fields"`
}

// FieldInstance is one field value set of a record.
type FieldInstance struct {
	ID           int64           `json:"id"`
	DefinitionID int64           `json:"definitionId"`
	Values       []ValueInstance `json:"values"`
}

// ValueInstance is one value of a field, possibly translated.
type ValueInstance struct {
	ID           int64         `json:"id"`
	Translations []Translation `json:"translations"`
}

// Translation is a value in one language. Language is empty for
// untranslated values.
type Translation struct {
	Language string `json:"language,omitempty"`
	Value    string `json:"value"`
}

// recordPage is a HAL page of records.
type recordPage struct {
	Embedded struct {
		Records []Record `json:"vocabularyRecordList"`
	} `json:"_embedded"`
}
