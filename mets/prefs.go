// Package mets builds the METS/MODS documents handed back to the workflow.
package mets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
)

var (
	// ErrUnknownDocType is returned when the ruleset does not define a docstruct type.
	ErrUnknownDocType = errors.New("unknown docstruct type")

	// ErrUnknownMetadataType is returned when the ruleset does not define a metadata type.
	ErrUnknownMetadataType = fmt.Errorf("unknown metadata type: %w", mapping.ErrUnknownField)
)

// Prefs is the subset of a ruleset needed to validate documents.
// A nil *Prefs accepts every name and treats every metadata type as plain metadata.
type Prefs struct {
	docTypes      map[string]bool
	metadataTypes map[string]mapping.FieldKind
}

var _ mapping.FieldKindResolver = (*Prefs)(nil)

// NewPrefs creates an empty ruleset.
func NewPrefs() *Prefs {
	return &Prefs{
		docTypes:      make(map[string]bool),
		metadataTypes: make(map[string]mapping.FieldKind),
	}
}

// LoadPrefs loads a ruleset XML file.
func LoadPrefs(path string) (*Prefs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ruleset: %w", err)
	}
	defer f.Close()

	return ParsePrefs(f)
}

// ParsePrefs reads a ruleset from r. Only <DocStrctType> and <MetadataType>
// names are used; a MetadataType with type="person" is a person role.
func ParsePrefs(r io.Reader) (*Prefs, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing ruleset XML: %w", err)
	}

	root := doc.SelectElement("Preferences")
	if root == nil {
		return nil, fmt.Errorf("parsing ruleset XML: missing <Preferences> root")
	}

	p := NewPrefs()
	for _, el := range root.SelectElements("DocStrctType") {
		if name := elementName(el); name != "" {
			p.AddDocType(name)
		}
	}
	for _, el := range root.SelectElements("MetadataType") {
		name := elementName(el)
		if name == "" {
			continue
		}
		kind := mapping.KindMetadata
		if el.SelectAttrValue("type", "") == "person" {
			kind = mapping.KindPerson
		}
		p.AddMetadataType(name, kind)
	}

	return p, nil
}

func elementName(el *etree.Element) string {
	name := el.SelectElement("Name")
	if name == nil {
		return ""
	}
	return strings.TrimSpace(name.Text())
}

// AddDocType registers a docstruct type.
func (p *Prefs) AddDocType(name string) {
	p.docTypes[name] = true
}

// AddMetadataType registers a metadata type or person role.
func (p *Prefs) AddMetadataType(name string, kind mapping.FieldKind) {
	p.metadataTypes[name] = kind
}

// HasDocType reports whether name is a known docstruct type.
func (p *Prefs) HasDocType(name string) bool {
	if p == nil {
		return name != ""
	}
	return p.docTypes[name]
}

// ResolveFieldKind implements mapping.FieldKindResolver.
func (p *Prefs) ResolveFieldKind(name string) (mapping.FieldKind, error) {
	if p == nil {
		return mapping.KindMetadata, nil
	}
	kind, ok := p.metadataTypes[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownMetadataType, name)
	}
	return kind, nil
}

// DocTypes returns the known docstruct types, sorted.
func (p *Prefs) DocTypes() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.docTypes))
	for name := range p.docTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver returns p as a mapping.FieldKindResolver, or nil when p is nil so
// that the mapper skips target validation.
func (p *Prefs) Resolver() mapping.FieldKindResolver {
	if p == nil {
		return nil
	}
	return p
}
