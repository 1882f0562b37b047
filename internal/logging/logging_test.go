package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ur65/ico-favicon/internal/config"
)

func TestNewLevel(t *testing.T) {
	log := New(config.LoggingConfig{Level: "debug"}, &bytes.Buffer{})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = New(config.LoggingConfig{Level: "nonsense"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(config.LoggingConfig{Level: "info", Format: "json"}, buf)

	log.WithField("size", "16x16").Info("Created version")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Created version", entry["msg"])
	assert.Equal(t, "16x16", entry["size"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewTextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(config.LoggingConfig{Level: "warn", Format: "text"}, buf)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
