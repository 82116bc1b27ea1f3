package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/liamwh/veloxide"
)

func TestZapLogger_ImplementsLogger(t *testing.T) {
	var _ veloxide.Logger = (*ZapLogger)(nil)
}

func TestZapLogger_ForwardsLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Debug("replaying history", "aggregate_id", "A1")
	logger.Info("command executed", "command_type", "OpenAccount")
	logger.Warn("command failed")
	logger.Error("adapter unreachable")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "replaying history", entries[0].Message)
	assert.Equal(t, "A1", entries[0].ContextMap()["aggregate_id"])

	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, "OpenAccount", entries[1].ContextMap()["command_type"])

	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
}

func TestConstructors(t *testing.T) {
	dev, err := NewDevelopment()
	require.NoError(t, err)
	assert.NotNil(t, dev)

	prod, err := NewProduction()
	require.NoError(t, err)
	assert.NotNil(t, prod)
}
