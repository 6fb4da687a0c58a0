package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "test"})

	log.Info("hello", map[string]interface{}{"count": 2})
	log.WithError(errors.New("boom")).Error("failed", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, "test", entries[0].ContextMap()["component"])
	assert.EqualValues(t, 2, entries[0].ContextMap()["count"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestNew_FallsBackToNopOnBadOutput(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/for/sure/log.txt")
	assert.NotNil(t, l)
}
