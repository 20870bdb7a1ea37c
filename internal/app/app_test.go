package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relaybot/internal/observability"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

func stubOTel(t *testing.T) *int {
	t.Helper()
	calls := 0
	orig := initOTel
	initOTel = func(context.Context, *logger.Logger, observability.OtelConfig) func(context.Context) error {
		return func(context.Context) error {
			calls++
			return nil
		}
	}
	t.Cleanup(func() { initOTel = orig })
	return &calls
}

func TestNewShutsDownTelemetryOnStoreFailure(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DATABASE_URL", "mysql://relaybot@localhost/relaybot")
	shutdowns := stubOTel(t)

	a, err := New(context.Background())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "init store")
	assert.Equal(t, 1, *shutdowns)
}

func TestNewSkipsTelemetryWhenConfigInvalid(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOG_MODE", "test")
	t.Setenv("TELEGRAM_TOKEN", "")
	shutdowns := stubOTel(t)

	_, err := New(context.Background())
	require.Error(t, err)
	assert.Zero(t, *shutdowns)
}
