package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core), LevelDebug), logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "off", want: LevelSilent},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	logger, logs := newObserved(zapcore.DebugLevel)

	logger.With(String("run_id", "abc")).Info("sampled",
		Int("day", 3),
		Float64("share", 0.5),
		Bool("extinct", false),
		Duration("interval", 2*time.Second),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["run_id"])
	assert.EqualValues(t, 3, ctx["day"])
	assert.Equal(t, 0.5, ctx["share"])
	assert.Equal(t, false, ctx["extinct"])
	assert.Equal(t, 2*time.Second, ctx["interval"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, logs := newObserved(zapcore.WarnLevel)

	logger.Debug("hidden")
	logger.Log(LevelInfo, "hidden too")
	logger.Log(LevelWarn, "shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.Equal(t, LevelSilent, logger.GetLevel())
	assert.NotPanics(t, func() {
		logger.Error("ignored", Error(nil))
		_ = logger.Sync()
	})
}
