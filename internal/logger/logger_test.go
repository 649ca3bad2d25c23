package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "debug", true)
	t.Cleanup(func() { Setup(nil, "info", false) })

	L().Debug("tick", "value", "10")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tick", rec["msg"])
	assert.Equal(t, "10", rec["value"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestSetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "warn", false)
	t.Cleanup(func() { Setup(nil, "info", false) })

	L().Info("hidden")
	assert.Zero(t, buf.Len())

	L().Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
