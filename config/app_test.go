package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApp = `plugin_config: plugin_intranda_opac_vocabulary.xml
ruleset: /opt/digiverso/goobi/rulesets/ruleset.xml
catalogues:
  - name: GND-Places
    backend: vocabulary
    database: Places
    address: http://localhost:8081
  - name: demo
    backend: sample
    database: sample
    options:
      timeout: 5s
`

func TestLoadApp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testApp), 0o644))

	app, err := LoadApp(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "plugin_intranda_opac_vocabulary.xml"), app.PluginConfig)
	assert.Equal(t, "/opt/digiverso/goobi/rulesets/ruleset.xml", app.Ruleset)
	assert.Equal(t, []string{"GND-Places", "demo"}, app.CatalogueNames())

	c, err := app.Catalogue("gnd-places")
	require.NoError(t, err)
	assert.Equal(t, "vocabulary", c.Backend)
	assert.Equal(t, "Places", c.Database)

	demo, err := app.Catalogue("demo")
	require.NoError(t, err)
	assert.Equal(t, "5s", demo.Option("timeout", "30s"))
	assert.Equal(t, "x", demo.Option("missing", "x"))

	_, err = app.Catalogue("nope")
	assert.Error(t, err)
}

func TestParseApp_Validation(t *testing.T) {
	tests := map[string]string{
		"missing plugin config": "catalogues: []\n",
		"unnamed catalogue":     "plugin_config: p.xml\ncatalogues:\n  - backend: sample\n",
		"duplicate catalogue":   "plugin_config: p.xml\ncatalogues:\n  - {name: a, backend: sample}\n  - {name: a, backend: sample}\n",
		"missing backend":       "plugin_config: p.xml\ncatalogues:\n  - {name: a}\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseApp([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	SetConfigDir("/tmp/opacbridge-test")
	t.Cleanup(func() { SetConfigDir("") })

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/opacbridge-test/config.yaml", p)

	t.Setenv(EnvConfigPath, "/etc/opacbridge.yaml")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/opacbridge.yaml", p)
}
