package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{level: "debug", want: "debug"},
		{level: "info", want: "info"},
		{level: "warn", want: "warning"},
		{level: "error", want: "error"},
		{level: "DEBUG", want: "debug"},
		{level: "invalid", want: "warning"},
		{level: "", want: "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, &bytes.Buffer{})
			require.NotNil(t, l)
			assert.Equal(t, tt.want, l.Level())
		})
	}
}

func TestNew_NilOutput(t *testing.T) {
	l := New("info", nil)
	require.NotNil(t, l)
	require.NotNil(t, l.log)
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		emit      func(*Logger)
		shouldLog bool
	}{
		{"debug with debug level", "debug", func(l *Logger) { l.Debug().Msg("debug") }, true},
		{"debug with info level", "info", func(l *Logger) { l.Debug().Msg("debug") }, false},
		{"info with warn level", "warn", func(l *Logger) { l.Info().Msg("info") }, false},
		{"warn with warn level", "warn", func(l *Logger) { l.Warn().Msg("warn") }, true},
		{"error with error level", "error", func(l *Logger) { l.Error().Msg("error") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.emit(New(tt.logLevel, buf))
			assert.Equal(t, tt.shouldLog, buf.Len() > 0, buf.String())
		})
	}
}

func TestEntry_ChainedFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New("debug", buf)

	l.Info().
		Str("binary", "clang").
		Strs("args", []string{"-I", "include"}).
		Int("line", 12).
		Bool("found", false).
		Dur("elapsed", 1500*time.Microsecond).
		Err(errors.New("chain error")).
		Msg("chained message")

	out := buf.String()
	assert.Contains(t, out, "chained message")
	assert.Contains(t, out, "binary=clang")
	assert.Contains(t, out, `args="-I include"`)
	assert.Contains(t, out, "line=12")
	assert.Contains(t, out, "found=false")
	assert.Contains(t, out, "elapsed=1.5")
	assert.Contains(t, out, "chain error")
}

func TestEntry_ErrNil(t *testing.T) {
	buf := &bytes.Buffer{}
	New("error", buf).Error().Err(nil).Msg("no error")

	assert.Contains(t, buf.String(), "no error")
	assert.NotContains(t, buf.String(), "error=")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error().Msg("dropped")
	assert.Equal(t, "panic", l.Level())
}
