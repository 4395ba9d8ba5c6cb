package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "warn", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Info().Msg("hidden")
	logger.Warn().Str("check", "incidents").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"visible"`)
	assert.Contains(t, out, `"check":"incidents"`)
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Output: &buf, NoColor: true})
	require.NoError(t, err)

	logger.Info().Msg("audit started")
	assert.Contains(t, buf.String(), "INF")
	assert.Contains(t, buf.String(), "audit started")
}

func TestNew_FileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "audit.log")

	logger, closeFn, err := New(Options{Format: FormatJSON, Output: &buf, File: path})
	require.NoError(t, err)

	logger.Info().Msg("to both")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
