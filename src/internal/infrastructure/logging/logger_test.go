package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
)

// Test 1: 依配置設定等級並替換全域 logger
func TestNew_SetsLevel(t *testing.T) {
	conf, err := config.Parse([]byte("log: {level: warn, encoding: console}"))
	require.NoError(t, err)

	logger, err := New(conf)

	require.NoError(t, err)
	assert.Same(t, logger, L)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

// Test 2: 無效等級
func TestNew_InvalidLevel(t *testing.T) {
	conf, err := config.Parse([]byte("log: {level: loud}"))
	require.NoError(t, err)

	_, err = New(conf)

	assert.Error(t, err)
}
