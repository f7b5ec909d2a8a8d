package mets

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/go-xmlfmt/xmlfmt"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	nsMETS  = "http://www.loc.gov/METS/"
	nsMODS  = "http://www.loc.gov/mods/v3"
	nsGoobi = "http://meta.goobi.org/v1.5.1/"
	nsXlink = "http://www.w3.org/1999/xlink"

	logicalDMDID  = "DMDLOG_0000"
	physicalDMDID = "DMDPHYS_0000"
)

type xmlMets struct {
	XMLName    xml.Name       `xml:"mets:mets"`
	XmlnsMets  string         `xml:"xmlns:mets,attr"`
	XmlnsMods  string         `xml:"xmlns:mods,attr"`
	XmlnsGoobi string         `xml:"xmlns:goobi,attr"`
	XmlnsXlink string         `xml:"xmlns:xlink,attr"`
	DmdSecs    []xmlDmdSec    `xml:"mets:dmdSec"`
	StructMaps []xmlStructMap `xml:"mets:structMap"`
}

type xmlDmdSec struct {
	ID     string    `xml:"ID,attr"`
	MdWrap xmlMdWrap `xml:"mets:mdWrap"`
}

type xmlMdWrap struct {
	MDType string   `xml:"MDTYPE,attr"`
	Goobi  xmlGoobi `xml:"mets:xmlData>mods:mods>mods:extension>goobi:goobi"`
}

type xmlGoobi struct {
	Metadata []xmlMetadata `xml:"goobi:metadata"`
}

type xmlMetadata struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr,omitempty"`
	Value     string `xml:",chardata"`
	FirstName string `xml:"goobi:firstName,omitempty"`
	LastName  string `xml:"goobi:lastName,omitempty"`
	Display   string `xml:"goobi:displayName,omitempty"`
}

type xmlStructMap struct {
	Type string `xml:"TYPE,attr"`
	Div  xmlDiv `xml:"mets:div"`
}

type xmlDiv struct {
	ID    string `xml:"ID,attr"`
	Type  string `xml:"TYPE,attr"`
	DMDID string `xml:"DMDID,attr"`
}

func dmdSec(id string, ds *DocStruct) xmlDmdSec {
	g := xmlGoobi{}
	for _, md := range ds.Metadata {
		g.Metadata = append(g.Metadata, xmlMetadata{Name: md.Name, Value: md.Value})
	}
	for _, p := range ds.Persons {
		g.Metadata = append(g.Metadata, xmlMetadata{
			Name:      p.Role,
			Type:      "person",
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Display:   p.DisplayName(),
		})
	}
	return xmlDmdSec{ID: id, MdWrap: xmlMdWrap{MDType: "MODS", Goobi: g}}
}

// WriteXML writes the document as METS with Goobi MODS extensions.
func (d *Document) WriteXML(w io.Writer, pretty bool) error {
	doc := xmlMets{
		XmlnsMets:  nsMETS,
		XmlnsMods:  nsMODS,
		XmlnsGoobi: nsGoobi,
		XmlnsXlink: nsXlink,
		DmdSecs: []xmlDmdSec{
			dmdSec(logicalDMDID, d.Logical),
			dmdSec(physicalDMDID, d.Physical),
		},
		StructMaps: []xmlStructMap{
			{Type: "LOGICAL", Div: xmlDiv{ID: "LOG_0000", Type: d.Logical.Type, DMDID: logicalDMDID}},
			{Type: "PHYSICAL", Div: xmlDiv{ID: "PHYS_0000", Type: d.Physical.Type, DMDID: physicalDMDID}},
		},
	}

	output, err := xml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling METS: %w", err)
	}

	body := string(output)
	if pretty {
		body = strings.TrimSpace(xmlfmt.FormatXML(body, "", "  "))
		body = strings.ReplaceAll(body, "\r\n", "\n")
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, body); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Struct returns the document as a protobuf Struct.
func (d *Document) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"logical":  docStructMap(d.Logical),
		"physical": docStructMap(d.Physical),
	})
}

func docStructMap(ds *DocStruct) map[string]any {
	metadata := make([]any, 0, len(ds.Metadata))
	for _, md := range ds.Metadata {
		metadata = append(metadata, map[string]any{"name": md.Name, "value": md.Value})
	}
	persons := make([]any, 0, len(ds.Persons))
	for _, p := range ds.Persons {
		persons = append(persons, map[string]any{
			"role":      p.Role,
			"firstName": p.FirstName,
			"lastName":  p.LastName,
		})
	}
	return map[string]any{
		"type":     ds.Type,
		"metadata": metadata,
		"persons":  persons,
	}
}

// WriteJSON writes the document as JSON.
func (d *Document) WriteJSON(w io.Writer, pretty bool) error {
	s, err := d.Struct()
	if err != nil {
		return fmt.Errorf("building document struct: %w", err)
	}

	opts := protojson.MarshalOptions{}
	if pretty {
		opts.Multiline = true
		opts.Indent = "  "
	}
	output, err := opts.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling document JSON: %w", err)
	}

	if _, err := w.Write(output); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Write writes the document in the named format ("mets" or "json").
func (d *Document) Write(w io.Writer, format string, pretty bool) error {
	switch strings.ToLower(format) {
	case "", "mets", "xml":
		return d.WriteXML(w, pretty)
	case "json":
		return d.WriteJSON(w, pretty)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
