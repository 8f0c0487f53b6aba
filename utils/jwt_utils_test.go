package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("secret", "warehouse-1", time.Hour)
	require.NoError(t, err)

	operator, err := ParseJWTToken("secret", token)

	require.NoError(t, err)
	assert.Equal(t, "warehouse-1", operator)
}

func TestParseJWTToken_WrongSecret(t *testing.T) {
	token, err := GenerateJWTToken("secret", "warehouse-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWTToken("other", token)

	assert.Error(t, err)
}

func TestParseJWTToken_Expired(t *testing.T) {
	token, err := GenerateJWTToken("secret", "warehouse-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWTToken("secret", token)

	assert.Error(t, err)
}

func TestGenerateJWTToken_EmptySecret(t *testing.T) {
	_, err := GenerateJWTToken("", "warehouse-1", time.Hour)

	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}
