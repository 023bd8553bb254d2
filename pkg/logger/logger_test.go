package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	l := New(Config{Level: "error", Format: "json"})
	assert.Equal(t, zerolog.ErrorLevel, l.GetLevel())
}

func TestWithComponentReturnsNewLogger(t *testing.T) {
	base := New(Config{Level: "info", Format: "json"})
	child := base.WithComponent("session-store")

	assert.NotSame(t, base, child)
	// level propagates through derived loggers
	assert.Equal(t, base.GetLevel(), child.GetLevel())
}

func TestSetGlobal(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	l := New(Config{Level: "warn", Format: "json"})
	SetGlobal(l)

	assert.Same(t, l, Global())
}
