package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		debug     bool
		wantDebug bool
	}{
		{name: "console info", wantDebug: false},
		{name: "json debug", json: true, debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.json, tt.debug)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestFallback(t *testing.T) {
	assert.NotNil(t, Fallback(nil))

	l := zap.NewExample()
	assert.Same(t, l, Fallback(l))
}
