// Package config loads the plugin mapping configuration and the catalogue list.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
)

// Wildcard matches every template in a <template> element.
const Wildcard = "*"

// ErrNoConfig is returned when no <config> block matches a workflow/template pair.
var ErrNoConfig = errors.New("no matching config block")

// Block is one <config> section of a plugin configuration file.
type Block struct {
	// Workflows lists the workflow names this block applies to
	Workflows []string `yaml:"workflows,omitempty" json:"workflows,omitempty"`

	// Templates lists template (catalogue database) names, "*" for any
	Templates []string `yaml:"templates,omitempty" json:"templates,omitempty"`

	// Mapping is the field mapping table of this block
	Mapping mapping.Config `yaml:",inline" json:"mapping"`
}

// HasWorkflow reports whether the block lists workflow.
func (b *Block) HasWorkflow(workflow string) bool {
	return contains(b.Workflows, workflow)
}

// HasTemplate reports whether the block lists template verbatim.
func (b *Block) HasTemplate(template string) bool {
	return contains(b.Templates, template)
}

// PluginConfig is a parsed plugin configuration file.
type PluginConfig struct {
	Blocks []Block `yaml:"configs" json:"configs"`
}

// LoadPlugin loads a plugin configuration file. Files ending in .yaml or
// .yml are read as YAML, everything else as Goobi plugin XML.
func LoadPlugin(path string) (*PluginConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plugin config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParsePluginYAML(data)
	default:
		return ParsePluginXML(strings.NewReader(string(data)))
	}
}

// ParsePluginYAML parses the YAML form of a plugin configuration.
func ParsePluginYAML(data []byte) (*PluginConfig, error) {
	var pc PluginConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parsing plugin config YAML: %w", err)
	}
	return &pc, nil
}

// ParsePluginXML parses a Goobi plugin configuration. Every <config>
// element in the document becomes a Block, in document order.
func ParsePluginXML(r io.Reader) (*PluginConfig, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing plugin config XML: %w", err)
	}

	pc := &PluginConfig{}
	for _, el := range doc.FindElements("//config") {
		pc.Blocks = append(pc.Blocks, parseBlock(el))
	}
	return pc, nil
}

func parseBlock(el *etree.Element) Block {
	var b Block

	for _, w := range el.SelectElements("workflow") {
		if v := strings.TrimSpace(w.Text()); v != "" {
			b.Workflows = append(b.Workflows, v)
		}
	}
	for _, t := range el.SelectElements("template") {
		if v := strings.TrimSpace(t.Text()); v != "" {
			b.Templates = append(b.Templates, v)
		}
	}

	if dt := el.SelectElement("defaultPublicationType"); dt != nil {
		b.Mapping.DefaultDocType = strings.TrimSpace(dt.Text())
	}
	if pt := el.SelectElement("publicationType"); pt != nil {
		b.Mapping.DocTypeField = pt.SelectAttrValue("field", "")
	}

	for _, md := range el.SelectElements("metadata") {
		b.Mapping.Metadata = append(b.Mapping.Metadata, mapping.Entry{
			Target: md.SelectAttrValue("name", ""),
			Source: md.SelectAttrValue("field", ""),
		})
	}
	for _, p := range el.SelectElements("person") {
		b.Mapping.Persons = append(b.Mapping.Persons, mapping.PersonEntry{
			Role:   p.SelectAttrValue("role", ""),
			Source: p.SelectAttrValue("field", ""),
		})
	}

	return b
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
