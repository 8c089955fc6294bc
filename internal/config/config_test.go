package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "output", cfg.Output.Directory)
	assert.Equal(t, "logs", cfg.Output.LogsDir)
	assert.False(t, cfg.Output.WriteRawText)
	assert.NotEmpty(t, cfg.Rules.File)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Setenv("EXTRASJSON_LOG_LEVEL", "debug")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateConfig(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	cfg.Log.Level = "bogus"
	assert.Error(t, validateConfig(cfg))

	cfg.Log.Level = "info"
	cfg.Log.Format = "xml"
	assert.Error(t, validateConfig(cfg))

	cfg.Log.Format = "json"
	cfg.Output.Directory = ""
	assert.Error(t, validateConfig(cfg))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "not-a-level"
	cfg.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
