package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/moldesc/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologProvider_Fields(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProviderWithWriter(&buf, slog.LevelDebug)

	logger := p.GetLoggerWithName("pipeline").With(ComponentsKey, 16)
	logger.Info("configuration evaluated", R2ScoreKey, 0.81, ModelNameKey, "LassoCV")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "configuration evaluated", lines[0]["message"])
	assert.Equal(t, "pipeline", lines[0][ComponentKey])
	assert.Equal(t, 16.0, lines[0][ComponentsKey])
	assert.Equal(t, 0.81, lines[0][R2ScoreKey])
}

func TestZerologProvider_LevelIsShared(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProviderWithWriter(&buf, slog.LevelInfo)
	logger := p.GetLogger()

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))

	p.SetLevel(LevelDebug)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestZerologProvider_ErrorWithStack(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProviderWithWriter(&buf, slog.LevelInfo)

	err := scierrors.New("lasso diverged")
	p.GetLogger().Error("fit failed", err, OperationKey, OperationFit)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "lasso diverged", lines[0][ErrAttrKey])
	assert.Equal(t, OperationFit, lines[0][OperationKey])
	assert.NotEmpty(t, lines[0][StacktraceAttrKey])
}

func TestSetProvider_RoutesWarnings(t *testing.T) {
	prev := GetProvider()
	t.Cleanup(func() {
		SetProvider(prev)
		scierrors.SetZerologWarnFunc(nil)
	})

	provider, buf := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)

	scierrors.Warn(scierrors.NewConvergenceWarning("Lasso", 1000, "duality gap not reached"))

	assert.Contains(t, buf.String(), "Lasso")
	assert.True(t, provider.Logger().ContainsField(ComponentKey, "warnings"))
	assert.Same(t, provider, GetProvider())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Panics(t, func() { ToLogLevel(tt.in) })
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger_AttachesStacktrace(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLogger(&buf, "info")
	slog.Error("descriptor failed", ErrAttr(scierrors.New("bad ring closure")))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["severity"])
	assert.NotEmpty(t, lines[0][StacktraceAttrKey])
}
