// Package record defines the catalogue record shape shared by every search backend.
package record

import "strings"

// ValueSeparator joins the values of a multi-valued field.
const ValueSeparator = " "

// Field is one named field of a fetched record. A field can carry several
// values, e.g. one per translation.
type Field struct {
	// Definition is the field definition name in the source schema
	Definition string `json:"definition" yaml:"definition"`

	// Values holds the flattened (translated) values in source order
	Values []string `json:"values" yaml:"values"`
}

// Joined returns all values joined with a single space.
func (f Field) Joined() string {
	return strings.Join(f.Values, ValueSeparator)
}

// Record is a single entry fetched from a backend.
type Record struct {
	// ID is the backend identifier of the record
	ID string `json:"id" yaml:"id"`

	// Fields are unordered by contract; scans use slice order
	Fields []Field `json:"fields" yaml:"fields"`
}

// New creates a record with the given id and fields.
func New(id string, fields ...Field) *Record {
	return &Record{ID: id, Fields: fields}
}

// Lookup returns the first field whose definition equals name.
// Later fields with the same definition are ignored.
func (r *Record) Lookup(name string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}
	for _, f := range r.Fields {
		if f.Definition == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasValue reports whether any value of any field equals v exactly.
func (r *Record) HasValue(v string) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Fields {
		for _, fv := range f.Values {
			if fv == v {
				return true
			}
		}
	}
	return false
}

// Add appends a field to the record.
func (r *Record) Add(definition string, values ...string) {
	r.Fields = append(r.Fields, Field{Definition: definition, Values: values})
}
