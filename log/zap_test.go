package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Level
		wantErr bool
	}{
		{name: "debug", arg: "debug", want: DebugLevel},
		{name: "upper case", arg: "WARN", want: WarnLevel},
		{name: "unknown", arg: "chatty", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_WithFilter(t *testing.T) {
	core, logs := observer.New(DebugLevel)
	l := &Logger{l: zap.New(core), level: DebugLevel}

	filtered, err := l.WithFilter("*:simulator.*")
	require.NoError(t, err)

	filtered.Named("simulator").Named("grid").Info("grid created")
	filtered.Named("service").Info("dropped")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "grid created", entries[0].Message)
	assert.Equal(t, "simulator.grid", entries[0].LoggerName)
}

func TestLogger_WithFilterInvalidRule(t *testing.T) {
	l := New(&bytes.Buffer{}, InfoLevel)
	_, err := l.WithFilter("nolevel:")
	assert.Error(t, err)
}

func TestNew_WritesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel)
	l.Debug("not written")
	l.Info("race simulated", String("race", "monza"), Int("laps", 53))

	assert.NotContains(t, buf.String(), "not written")
	assert.Contains(t, buf.String(), `"race":"monza"`)
	assert.Contains(t, buf.String(), `"laps":53`)
}

func TestGetFromContext(t *testing.T) {
	assert.Same(t, Default(), GetFromContext(context.Background()))

	l := New(&bytes.Buffer{}, DebugLevel).Named("ctx")
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}
