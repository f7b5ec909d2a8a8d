package mets

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
)

const (
	// PhysicalType is the docstruct type of every physical structure.
	PhysicalType = "BoundBook"

	// ImagePathMetadata names the physical metadata pointing at the image folder.
	ImagePathMetadata = "pathimagefiles"

	// DefaultImagePath is the image folder written for new documents.
	DefaultImagePath = "/images"

	// IdentifierMetadata carries the backend record identifier.
	IdentifierMetadata = "CatalogIDDigital"
)

// Metadata is a named value attached to a docstruct.
type Metadata struct {
	Name  string
	Value string
}

// Person is a person attached to a docstruct.
type Person struct {
	Role      string
	FirstName string
	LastName  string
}

// DisplayName returns "Last, First" or just the last name.
func (p Person) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.LastName + ", " + p.FirstName
}

// DocStruct is one structural node of a document.
type DocStruct struct {
	Type     string
	Metadata []Metadata
	Persons  []Person
}

// MetadataValue returns the first value of the named metadata.
func (d *DocStruct) MetadataValue(name string) (string, bool) {
	for _, md := range d.Metadata {
		if md.Name == name {
			return md.Value, true
		}
	}
	return "", false
}

// Document holds a logical and a physical structure.
type Document struct {
	Logical  *DocStruct
	Physical *DocStruct

	prefs *Prefs
}

// NewDocument creates a document whose logical structure has type docType.
// The physical structure is a BoundBook pointing at the default image path.
func NewDocument(prefs *Prefs, docType string) (*Document, error) {
	docType = strings.TrimSpace(docType)
	if !prefs.HasDocType(docType) {
		return nil, fmt.Errorf("%w %q", ErrUnknownDocType, docType)
	}

	return &Document{
		Logical: &DocStruct{Type: docType},
		Physical: &DocStruct{
			Type:     PhysicalType,
			Metadata: []Metadata{{Name: ImagePathMetadata, Value: DefaultImagePath}},
		},
		prefs: prefs,
	}, nil
}

// AddMetadata attaches a metadata value to the logical structure.
func (d *Document) AddMetadata(name, value string) error {
	kind, err := d.prefs.ResolveFieldKind(name)
	if err != nil {
		return err
	}
	if kind != mapping.KindMetadata {
		return fmt.Errorf("%q is a %s type, not metadata", name, kind)
	}
	d.Logical.Metadata = append(d.Logical.Metadata, Metadata{Name: name, Value: value})
	return nil
}

// AddPerson attaches a person to the logical structure.
func (d *Document) AddPerson(role, firstName, lastName string) error {
	if d.prefs != nil {
		kind, err := d.prefs.ResolveFieldKind(role)
		if err != nil {
			return err
		}
		if kind != mapping.KindPerson {
			return fmt.Errorf("%q is a %s type, not a person role", role, kind)
		}
	}
	if strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("person %q: empty last name", role)
	}
	d.Logical.Persons = append(d.Logical.Persons, Person{Role: role, FirstName: firstName, LastName: lastName})
	return nil
}

// Apply attaches resolved metadata and persons. Entries the ruleset rejects
// are returned as errors and skipped; the remaining entries are still added.
func (d *Document) Apply(res mapping.Resolved) []error {
	var errs []error
	for _, p := range res.Metadata {
		if err := d.AddMetadata(p.Target, p.Value); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range res.Persons {
		if err := d.AddPerson(p.Role, p.FirstName, p.LastName); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
