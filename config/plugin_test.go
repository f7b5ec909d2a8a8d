package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
)

const testPluginXML = `<?xml version="1.0" encoding="UTF-8"?>
<config_plugin>
  <config>
    <template>Places</template>
    <defaultPublicationType>Map</defaultPublicationType>
  </config>
  <config>
    <workflow>Manuscripts</workflow>
    <template>Places</template>
    <defaultPublicationType>Manuscript</defaultPublicationType>
  </config>
  <config>
    <workflow>Manuscripts</workflow>
    <template>Persons</template>
    <defaultPublicationType>Letter</defaultPublicationType>
  </config>
  <config>
    <template>*</template>
    <defaultPublicationType>Monograph</defaultPublicationType>
    <publicationType field="docType"/>
    <metadata name="TitleDocMain" field="title"/>
    <metadata name="PlaceOfPublication" field="place"/>
    <person role="Author" field="author"/>
  </config>
</config_plugin>`

func testPlugin(t *testing.T) *PluginConfig {
	t.Helper()
	pc, err := ParsePluginXML(strings.NewReader(testPluginXML))
	require.NoError(t, err)
	return pc
}

func TestParsePluginXML(t *testing.T) {
	pc := testPlugin(t)
	require.Len(t, pc.Blocks, 4)

	wildcard := pc.Blocks[3]
	assert.Equal(t, []string{"*"}, wildcard.Templates)
	assert.Empty(t, wildcard.Workflows)
	assert.Equal(t, mapping.Config{
		DefaultDocType: "Monograph",
		DocTypeField:   "docType",
		Metadata: []mapping.Entry{
			{Target: "TitleDocMain", Source: "title"},
			{Target: "PlaceOfPublication", Source: "place"},
		},
		Persons: []mapping.PersonEntry{{Role: "Author", Source: "author"}},
	}, wildcard.Mapping)
}

func TestParsePluginXML_Invalid(t *testing.T) {
	_, err := ParsePluginXML(strings.NewReader(`<config_plugin attr=unquoted>`))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	pc := testPlugin(t)

	tests := []struct {
		name     string
		workflow string
		template string
		want     string
	}{
		{name: "workflow and template", workflow: "Manuscripts", template: "Persons", want: "Letter"},
		{name: "workflow and template beats earlier template block", workflow: "Manuscripts", template: "Places", want: "Manuscript"},
		{name: "workflow only", workflow: "Manuscripts", template: "Subjects", want: "Manuscript"},
		{name: "template only", workflow: "Other", template: "Places", want: "Map"},
		{name: "blank workflow skips workflow rules", workflow: "  ", template: "Places", want: "Map"},
		{name: "wildcard", workflow: "", template: "Subjects", want: "Monograph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := pc.Select(tt.workflow, tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Mapping.DefaultDocType)
		})
	}
}

func TestSelect_NoMatchFailsClosed(t *testing.T) {
	pc := testPlugin(t)
	pc.Blocks = pc.Blocks[:3]
	require.Equal(t, "Letter", pc.Blocks[2].Mapping.DefaultDocType)

	_, err := pc.Select("", "Subjects")
	assert.True(t, errors.Is(err, ErrNoConfig))
}

func TestRules_Order(t *testing.T) {
	var names []string
	for _, r := range Rules("wf", "tpl") {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"workflow+template", "workflow", "template", "wildcard"}, names)

	names = nil
	for _, r := range Rules("", "tpl") {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"template", "wildcard"}, names)
}

func TestLoadPlugin_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.yaml")
	content := `configs:
  - templates: ["*"]
    default_doc_type: Monograph
    doc_type_field: docType
    metadata:
      - name: TitleDocMain
        field: title
    persons:
      - role: Author
        field: author
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pc, err := LoadPlugin(path)
	require.NoError(t, err)
	require.Len(t, pc.Blocks, 1)

	b, err := pc.Select("", "anything")
	require.NoError(t, err)
	assert.Equal(t, "Monograph", b.Mapping.DefaultDocType)
	assert.Equal(t, "docType", b.Mapping.DocTypeField)
	assert.Equal(t, []mapping.Entry{{Target: "TitleDocMain", Source: "title"}}, b.Mapping.Metadata)
	assert.Equal(t, []mapping.PersonEntry{{Role: "Author", Source: "author"}}, b.Mapping.Persons)
}

func TestLoadPlugin_Missing(t *testing.T) {
	_, err := LoadPlugin(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
