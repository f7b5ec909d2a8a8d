package mets

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/opacbridge/mapping"
)

const testRuleset = `<?xml version="1.0" encoding="UTF-8"?>
<Preferences>
  <MetadataType>
    <Name>TitleDocMain</Name>
    <language name="de">Haupttitel</language>
  </MetadataType>
  <MetadataType>
    <Name>CatalogIDDigital</Name>
  </MetadataType>
  <MetadataType type="person">
    <Name>Author</Name>
  </MetadataType>
  <MetadataType>
    <Name></Name>
  </MetadataType>
  <DocStrctType topStruct="true">
    <Name>Monograph</Name>
    <metadata num="1o">TitleDocMain</metadata>
  </DocStrctType>
  <DocStrctType>
    <Name>BoundBook</Name>
  </DocStrctType>
</Preferences>`

func testPrefs(t *testing.T) *Prefs {
	t.Helper()
	p, err := ParsePrefs(strings.NewReader(testRuleset))
	require.NoError(t, err)
	return p
}

func TestParsePrefs(t *testing.T) {
	p := testPrefs(t)

	assert.Equal(t, []string{"BoundBook", "Monograph"}, p.DocTypes())
	assert.True(t, p.HasDocType("Monograph"))
	assert.False(t, p.HasDocType("Periodical"))

	kind, err := p.ResolveFieldKind("Author")
	require.NoError(t, err)
	assert.Equal(t, mapping.KindPerson, kind)

	kind, err = p.ResolveFieldKind("TitleDocMain")
	require.NoError(t, err)
	assert.Equal(t, mapping.KindMetadata, kind)

	_, err = p.ResolveFieldKind("NoSuchType")
	assert.True(t, errors.Is(err, mapping.ErrUnknownField))
	assert.True(t, errors.Is(err, ErrUnknownMetadataType))
}

func TestParsePrefs_MissingRoot(t *testing.T) {
	_, err := ParsePrefs(strings.NewReader(`<Ruleset/>`))
	assert.Error(t, err)
}

func TestNilPrefsAcceptsEverything(t *testing.T) {
	var p *Prefs

	assert.True(t, p.HasDocType("Anything"))
	assert.Nil(t, p.Resolver())

	kind, err := p.ResolveFieldKind("Anything")
	require.NoError(t, err)
	assert.Equal(t, mapping.KindMetadata, kind)
}
