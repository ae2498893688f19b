package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig([]byte(`
import_prefix: github.com/example/tonclient
line_width: 120
presence_accessors: false
open_map_types: [Value, API, AbiParam]
reserved:
  phrase: mnemonic
roles:
  app_object: [app_object, password_provider, signing_box]
`))
	require.NoError(t, err)
	assert.Equal("github.com/example/tonclient", cfg.ImportPrefix)
	assert.Equal(120, cfg.LineWidth)
	assert.False(cfg.PresenceAccessors)
	assert.Equal([]string{"Value", "API", "AbiParam"}, cfg.OpenMapTypes)
	assert.Equal([]string{"app_object", "password_provider", "signing_box"}, cfg.Roles.AppObject)

	// untouched settings keep their defaults
	assert.Equal("type", cfg.DiscriminatorKey)
	assert.Equal("ParamsOf", cfg.ParamsStructPrefix)
	assert.Equal([]string{"context", "_context"}, cfg.Roles.Context)

	sub, ok := cfg.reservedTable().Remap("phrase")
	assert.True(ok)
	assert.Equal("mnemonic", sub)
	sub, ok = cfg.reservedTable().Remap("public")
	assert.True(ok)
	assert.Equal("publicKey", sub)
}

func TestConfigValidation(t *testing.T) {
	testVectors := []struct {
		name string
		yaml string
	}{
		{"trailing slash", "import_prefix: example.com/sdk/"},
		{"narrow", "line_width: 20"},
		{"bad substitute", "reserved: {public: \"public key\"}"},
		{"role overlap", "roles: {params: [params, context]}"},
		{"empty discriminator", "discriminator_key: \"\""},
		{"not yaml", "line_width: [1"},
	}
	for _, vec := range testVectors {
		_, err := ParseConfig([]byte(vec.yaml))
		assert.Error(t, err, vec.name)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "apigen.yaml")
	require.NoError(t, os.WriteFile(p, []byte("import_prefix: example.com/x\n"), 0o644))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "example.com/x", cfg.ImportPrefix)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineWidth = 10
	_, err := New(cfg, nil)
	assert.Error(t, err)
}
