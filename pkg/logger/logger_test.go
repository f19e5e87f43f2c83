package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Out: &buf})

	l.Named("installer").Info().Str("email", "admin@example.com").Msg("administrator created")
	l.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, `"component":"installer"`)
	assert.Contains(t, out, `"message":"administrator created"`)
	assert.NotContains(t, out, "hidden")
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "ERROR", Out: &buf})

	l.Warn().Msg("dropped")
	l.Error().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
