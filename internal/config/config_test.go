package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", c.Root)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "text", c.Logging.Format)
	assert.Equal(t, "lanczos", c.Generator.Filter)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
root: /srv/site
logging:
  level: debug
  format: json
generator:
  filter: catmullrom
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", c.Root)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, "catmullrom", c.Generator.Filter)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "logging:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, ".", c.Root)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "text", c.Logging.Format)
	assert.Equal(t, "lanczos", c.Generator.Filter)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "missing file should fail")

	_, err = Load(writeConfig(t, "root: [unterminated"))
	assert.Error(t, err, "malformed YAML should fail")

	_, err = Load(writeConfig(t, "logging:\n  format: xml\n"))
	assert.Error(t, err, "unknown log format should fail")

	_, err = Load(writeConfig(t, "generator:\n  filter: bicubic\n"))
	assert.Error(t, err, "unknown filter should fail")
}
