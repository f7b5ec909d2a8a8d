// Package mapping resolves fetched catalogue records into document metadata.
//
// A Config lists which record field feeds which target metadata name. The
// resolver functions in this package are pure: they never modify the record
// or the config and they never fail on missing data.
package mapping

import "errors"

// ErrUnknownField is returned by a FieldKindResolver for names the receiving
// document schema does not define.
var ErrUnknownField = errors.New("unknown field")

// Entry maps one record field onto one target metadata name.
type Entry struct {
	// Target is the metadata name in the receiving document (e.g., "TitleDocMain")
	Target string `yaml:"name" json:"name"`

	// Source is the record field definition name (e.g., "title")
	Source string `yaml:"field" json:"field"`
}

// PersonEntry maps one record field onto a person role.
type PersonEntry struct {
	// Role is the person role in the receiving document (e.g., "Author")
	Role string `yaml:"role" json:"role"`

	// Source is the record field definition name
	Source string `yaml:"field" json:"field"`
}

// Config is the mapping table selected for one workflow/template pair.
type Config struct {
	// DefaultDocType is used when no document type field is configured or found
	DefaultDocType string `yaml:"default_doc_type,omitempty" json:"default_doc_type,omitempty"`

	// DocTypeField names the record field whose value overrides DefaultDocType
	DocTypeField string `yaml:"doc_type_field,omitempty" json:"doc_type_field,omitempty"`

	// Metadata entries in configured order
	Metadata []Entry `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// Persons entries in configured order
	Persons []PersonEntry `yaml:"persons,omitempty" json:"persons,omitempty"`
}

// Pair is one resolved metadata value.
type Pair struct {
	Target string `json:"name"`
	Value  string `json:"value"`
}

// PersonPair is one resolved person.
type PersonPair struct {
	Role      string `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name"`
}

// Resolved is the outcome of mapping a single record.
type Resolved struct {
	DocType  string       `json:"doc_type"`
	Metadata []Pair       `json:"metadata"`
	Persons  []PersonPair `json:"persons,omitempty"`
}

// FieldKind classifies a target name in the receiving schema.
type FieldKind int

const (
	// KindMetadata is a plain metadata value
	KindMetadata FieldKind = iota
	// KindPerson is a person role
	KindPerson
)

func (k FieldKind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindPerson:
		return "person"
	default:
		return "unknown"
	}
}

// FieldKindResolver looks up target names in the receiving document schema.
// Implementations return an error wrapping ErrUnknownField for names they
// do not know.
type FieldKindResolver interface {
	ResolveFieldKind(name string) (FieldKind, error)
}

// FieldKindFunc adapts a function to FieldKindResolver.
type FieldKindFunc func(name string) (FieldKind, error)

// ResolveFieldKind calls f(name).
func (f FieldKindFunc) ResolveFieldKind(name string) (FieldKind, error) {
	return f(name)
}
