package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racecontrol-service-go/log"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, parseLogLevel("warn", log.InfoLevel))
	assert.Equal(t, log.InfoLevel, parseLogLevel("loud", log.InfoLevel))
}

func TestInitLogger(t *testing.T) {
	orig := log.Default()
	t.Cleanup(func() {
		log.ResetDefault(orig)
		LogFormat, LogLevel, LogFilter = "", "", ""
	})

	LogFormat, LogLevel, LogFilter = "json", "debug", "debug:simulator.*"
	l, err := InitLogger()
	require.NoError(t, err)
	assert.Same(t, l, log.Default())
	assert.Equal(t, log.DebugLevel, l.Level())

	LogFilter = "nolevel:"
	_, err = InitLogger()
	assert.Error(t, err)
	assert.Same(t, l, log.Default())
}

func TestSetupTelemetry_MissingEndpoint(t *testing.T) {
	t.Cleanup(func() { TelemetryEndpoint, TelemetryStdout = "", false })
	TelemetryEndpoint, TelemetryStdout = "", false
	_, err := SetupTelemetry(context.Background())
	assert.Error(t, err)
}

func TestSetupTelemetry_Stdout(t *testing.T) {
	t.Cleanup(func() { TelemetryStdout = false })
	TelemetryStdout = true
	tel, err := SetupTelemetry(context.Background())
	require.NoError(t, err)
	tel.Shutdown()
}
