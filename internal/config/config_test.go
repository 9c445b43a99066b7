package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bizpilot", cfg.App.Name)
	assert.Equal(t, 30, cfg.Prompt.MaxDataRows)
	assert.Equal(t, 5, cfg.Prompt.FetchTimeoutSeconds)
	assert.NotEmpty(t, cfg.LLM.BaseURL)
	assert.NotEmpty(t, cfg.RabbitMQ.MessagePersistQueue)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PROMPT_MAX_DATA_ROWS", "10")
	t.Setenv("LLM_MODEL", "test-model")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 10, cfg.Prompt.MaxDataRows)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Contains(t, cfg.HTTPAddr(), ":9090")
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	dsn := cfg.MySQLDSN()
	assert.Contains(t, dsn, "parseTime")
}
