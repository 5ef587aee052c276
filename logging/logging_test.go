package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogging(t *testing.T) {
	var buf bytes.Buffer
	InitializeLoggingTo(&buf)

	Log.Debug("hidden")
	Log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	require.NoError(t, ConfigureLogging("DEBUG"))
	Log.Debugf("now %s", "visible")
	assert.Contains(t, buf.String(), "now visible")

	require.NoError(t, ConfigureLogging("error"))
	Log.Warning("suppressed")
	assert.NotContains(t, buf.String(), "suppressed")

	assert.Error(t, ConfigureLogging("LOUD"))
}
